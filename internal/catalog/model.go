package catalog

import "time"

// Mission is the GORM row for a mission definition.
type Mission struct {
	ID         uint   `gorm:"primarykey"`
	Name       string `gorm:"not null"`
	Difficulty string
	IsActive   bool `gorm:"default:true"`
	Completed  bool
	Brief      string
	Steps      string // newline-separated objective list
	ParSeconds int
	CreatedAt  time.Time
}

// Play is one recorded mission attempt.
type Play struct {
	ID        uint `gorm:"primarykey"`
	MissionID uint `gorm:"index"`
	Outcome   string
	ElapsedMs int64
	CreatedAt time.Time
}

func (m Mission) descriptor() Descriptor {
	return Descriptor{
		ID:         m.ID,
		Title:      m.Name,
		Difficulty: ParseDifficulty(m.Difficulty),
		Completed:  m.Completed,
	}
}

func (m Mission) detail() Detail {
	var steps []string
	for _, line := range splitLines(m.Steps) {
		if line != "" {
			steps = append(steps, line)
		}
	}
	return Detail{
		Descriptor: m.descriptor(),
		Brief:      m.Brief,
		Steps:      steps,
		Par:        time.Duration(m.ParSeconds) * time.Second,
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
