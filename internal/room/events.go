package room

import (
	"github.com/lox/holdemrooms/internal/game"
	"github.com/lox/holdemrooms/internal/protocol"
)

func (r *Room) stateLocked() protocol.StateUpdate {
	st := r.table.Snapshot()
	out := protocol.StateUpdate{
		RoomID:            r.id,
		HandID:            r.handID,
		HandNumber:        st.HandNumber,
		Seats:             make([]protocol.SeatView, 0, len(st.Seats)),
		CommunityCards:    st.CommunityCards,
		Pot:               st.Pot,
		CurrentActorSeat:  st.CurrentActorSeat,
		DealerSeat:        st.DealerSeat,
		Street:            st.Street.String(),
		MinRaiseIncrement: st.MinRaiseIncrement,
		SmallBlind:        r.cfg.SmallBlind,
		BigBlind:          r.cfg.BigBlind,
		InHand:            st.InHand,
		Started:           r.started,
		Finished:          r.finished,
	}
	if st.CurrentActorSeat >= 0 {
		out.CurrentActor = st.Seats[st.CurrentActorSeat].ID
	}
	for _, s := range st.Seats {
		out.Seats = append(out.Seats, protocol.SeatView{
			ID:     s.ID,
			Stack:  s.Stack,
			Bet:    s.Bet,
			Folded: s.Folded,
			AllIn:  s.AllIn,
		})
	}
	return out
}

func (r *Room) showdownLocked(res *game.ShowdownResult) protocol.ShowdownResultData {
	out := protocol.ShowdownResultData{
		RoomID:      r.id,
		HandID:      r.handID,
		HandNumber:  res.HandNumber,
		Board:       res.Board,
		Winnings:    make(map[string]int, len(res.Payouts)),
		Hands:       make(map[string]protocol.RevealedHand, len(res.Hands)),
		Uncontested: res.Uncontested,
	}
	for seat, amount := range res.Payouts {
		out.Winnings[r.table.SeatID(seat)] = amount
	}
	for seat, h := range res.Hands {
		out.Hands[r.table.SeatID(seat)] = protocol.RevealedHand{
			Cards:    h.Hole,
			Category: h.Rank.Category.String(),
			Rank:     h.Rank.String(),
		}
	}
	for _, p := range res.Pots {
		out.Pots = append(out.Pots, protocol.PotView{
			Amount:   p.Amount,
			Eligible: r.seatIDs(p.Eligible),
			Winners:  r.seatIDs(p.Winners),
		})
	}
	return out
}

func (r *Room) seatIDs(seats []int) []string {
	ids := make([]string, len(seats))
	for i, s := range seats {
		ids[i] = r.table.SeatID(s)
	}
	return ids
}
