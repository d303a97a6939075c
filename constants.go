package server

import "time"

const (
	tickRate      = 20 // simulation ticks per second
	maxFrameDelta = 50 * time.Millisecond

	arenaWidth    = 800.0
	arenaHeight   = 600.0
	characterSize = 30.0

	totalCombatants = 8
	totalRounds     = 5
	candidateCount  = 3
	killScoreBonus  = 10
	startingGold    = 0

	zoneActivationDelay = 15 * time.Second
	zoneShrinkDuration  = 60 * time.Second
	zoneMinRadius       = 120.0
	zonePushSpeed       = 120.0

	writeWait = 10 * time.Second
)
