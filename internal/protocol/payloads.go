package protocol

import "github.com/lox/holdemrooms/poker"

// Client to server payloads

type CreateRoomData struct {
	PlayerID      string `json:"playerId"`
	StackMultiple int    `json:"stackMultiple,omitempty"`
}

type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server to client payloads

type RoomJoinedData struct {
	RoomID   string   `json:"roomId"`
	PlayerID string   `json:"playerId"`
	Creator  string   `json:"creator"`
	Players  []string `json:"players"`
	Stack    int      `json:"stack"`
}

type RoomLeftData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type SeatView struct {
	ID     string `json:"id"`
	Stack  int    `json:"stack"`
	Bet    int    `json:"bet"`
	Folded bool   `json:"folded"`
	AllIn  bool   `json:"allIn"`
}

// StateUpdate is the public snapshot of a room. It never carries hole cards.
type StateUpdate struct {
	RoomID            string       `json:"roomId"`
	HandID            string       `json:"handId,omitempty"`
	HandNumber        int          `json:"handNumber"`
	Seats             []SeatView   `json:"seats"`
	CommunityCards    []poker.Card `json:"communityCards"`
	Pot               int          `json:"pot"`
	CurrentActorSeat  int          `json:"currentActorSeat"`
	CurrentActor      string       `json:"currentActor,omitempty"`
	DealerSeat        int          `json:"dealerSeat"`
	Street            string       `json:"street"`
	MinRaiseIncrement int          `json:"minRaiseIncrement"`
	SmallBlind        int          `json:"smallBlind"`
	BigBlind          int          `json:"bigBlind"`
	InHand            bool         `json:"inHand"`
	Started           bool         `json:"started"`
	Finished          bool         `json:"finished"`
}

type HoleCardsData struct {
	RoomID     string       `json:"roomId"`
	HandNumber int          `json:"handNumber"`
	PlayerID   string       `json:"playerId"`
	Cards      []poker.Card `json:"cards"`
}

type RevealedHand struct {
	Cards    []poker.Card `json:"cards"`
	Category string       `json:"category"`
	Rank     string       `json:"rank"`
}

type PotView struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners"`
}

type ShowdownResultData struct {
	RoomID      string                  `json:"roomId"`
	HandID      string                  `json:"handId"`
	HandNumber  int                     `json:"handNumber"`
	Board       []poker.Card            `json:"board"`
	Winnings    map[string]int          `json:"winnings"`
	Hands       map[string]RevealedHand `json:"hands"`
	Pots        []PotView               `json:"pots"`
	Uncontested bool                    `json:"uncontested"`
}

type GameOverData struct {
	RoomID string         `json:"roomId"`
	Winner string         `json:"winner,omitempty"`
	Stacks map[string]int `json:"stacks"`
}

type ActionTimeoutData struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	HandNumber int    `json:"handNumber"`
	Action     string `json:"action"`
}

type RoomClosedData struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
