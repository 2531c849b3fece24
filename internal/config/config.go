package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/renteasy/messenger/internal/types"
)

type Config struct {
	// DataDir is the storage area shared by every tab of the profile.
	DataDir           string
	ActorId           string
	ActorName         string
	ActorRole         types.Role
	Assignments       []string
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
}

func NewConfig(dataDir, actorId, actorName, role string, assignments []string) (*Config, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	// anonymous visitors still get a working session, like the web
	// views' guest fallback
	if actorId == "" {
		actorId = fmt.Sprintf("guest-%d", rand.Intn(1000000))
	}
	if actorName == "" {
		actorName = "Guest"
	}

	return &Config{
		DataDir:     dataDir,
		ActorId:     actorId,
		ActorName:   actorName,
		ActorRole:   types.ParseRole(role),
		Assignments: assignments,
	}, nil
}

func (c *Config) Actor() types.Actor {
	return types.Actor{
		Id:          c.ActorId,
		Name:        c.ActorName,
		Role:        c.ActorRole,
		Assignments: c.Assignments,
	}
}
