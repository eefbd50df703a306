package match

import (
	"sort"

	"github.com/cruxsyn/shipwar/internal/clock"
	"github.com/cruxsyn/shipwar/internal/wire"
)

// buildMatchStats computes the final per-player stat line and placement,
// once, from the terminal player map. Players still alive at the end
// place ahead of every dead player; within each group placement is by
// alive time descending: whoever survived longest places first.
func (m *Match) buildMatchStats() wire.MatchStats {
	s := m.state
	var duration uint32
	if s.startTime != 0 {
		duration = uint32((clock.UnixMillis() - s.startTime) / 1000)
	}

	ids := s.sortedPlayerIDs()
	playerStats := make([]wire.PlayerMatchStats, 0, len(ids))
	for _, id := range ids {
		p := s.players[id]
		aliveTime := duration
		if p.DeathTime != 0 {
			aliveTime = uint32((p.DeathTime - p.SpawnTime) / 1000)
		}
		playerStats = append(playerStats, wire.PlayerMatchStats{
			UserID:        p.UserID,
			Kills:         p.Kills,
			DamageDealt:   p.DamageDealt,
			DamageTaken:   p.DamageTaken,
			ShotsFired:    p.ShotsFired,
			ShotsHit:      p.ShotsHit,
			AliveTimeSecs: aliveTime,
		})
	}

	sort.SliceStable(playerStats, func(i, j int) bool {
		iAlive := s.players[playerStats[i].UserID].Alive
		jAlive := s.players[playerStats[j].UserID].Alive
		if iAlive != jAlive {
			return iAlive
		}
		return playerStats[i].AliveTimeSecs > playerStats[j].AliveTimeSecs
	})
	for i := range playerStats {
		playerStats[i].Placement = uint32(i + 1)
	}

	return wire.MatchStats{
		DurationSecs: duration,
		TotalPlayers: uint32(len(s.players)),
		PlayerStats:  playerStats,
	}
}
