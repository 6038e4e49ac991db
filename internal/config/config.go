// Package config loads the server configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemrooms/internal/room"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Room   *RoomSettings  `hcl:"room,block"`
	Redis  *RedisSettings `hcl:"redis,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// RoomSettings are the defaults for every room
type RoomSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StackMultiple int    `hcl:"stack_multiple,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	TurnTimeout   string `hcl:"turn_timeout,optional"`
	ShowdownDelay string `hcl:"showdown_delay,optional"`
}

// RedisSettings enables publishing room events to Redis when URL is set
type RedisSettings struct {
	URL           string `hcl:"url,optional"`
	ChannelPrefix string `hcl:"channel_prefix,optional"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Room == nil {
		c.Room = &RoomSettings{}
	}
	if c.Room.SmallBlind == 0 {
		c.Room.SmallBlind = 50
	}
	if c.Room.BigBlind == 0 {
		c.Room.BigBlind = 100
	}
	if c.Room.StackMultiple == 0 {
		c.Room.StackMultiple = 20
	}
	if c.Room.MaxSeats == 0 {
		c.Room.MaxSeats = 6
	}
	if c.Room.TurnTimeout == "" {
		c.Room.TurnTimeout = "30s"
	}
	if c.Room.ShowdownDelay == "" {
		c.Room.ShowdownDelay = "5s"
	}

	if c.Redis == nil {
		c.Redis = &RedisSettings{}
	}
	if c.Redis.ChannelPrefix == "" {
		c.Redis.ChannelPrefix = "holdem"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	r := c.Room
	if r.SmallBlind <= 0 {
		return fmt.Errorf("room: small blind must be positive")
	}
	if r.BigBlind <= r.SmallBlind {
		return fmt.Errorf("room: big blind must be greater than small blind")
	}
	if r.StackMultiple <= 0 {
		return fmt.Errorf("room: stack multiple must be positive")
	}
	if r.MaxSeats < 2 || r.MaxSeats > 6 {
		return fmt.Errorf("room: max seats must be between 2 and 6")
	}
	for name, v := range map[string]string{"turn_timeout": r.TurnTimeout, "showdown_delay": r.ShowdownDelay} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("room: %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("room: %s must be positive", name)
		}
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("redis: url must use redis:// or rediss://")
	}
	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomConfig converts the room settings for package room. Call Validate
// first; unparseable durations fall back to the room defaults.
func (c *Config) RoomConfig() room.Config {
	turn, _ := time.ParseDuration(c.Room.TurnTimeout)
	delay, _ := time.ParseDuration(c.Room.ShowdownDelay)
	return room.Config{
		SmallBlind:    c.Room.SmallBlind,
		BigBlind:      c.Room.BigBlind,
		StackMultiple: c.Room.StackMultiple,
		MaxSeats:      c.Room.MaxSeats,
		TurnTimeout:   turn,
		ShowdownDelay: delay,
	}
}
