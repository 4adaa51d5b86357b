package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version      int                 `toml:"version"`
	NextID       int64               `toml:"next_id"`
	Observations []observationSchema `toml:"observations"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	for _, o := range s.Observations {
		if o.ID >= s.NextID {
			s.NextID = o.ID + 1
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported observations schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type observationSchema struct {
	ID         int64          `toml:"id"`
	CreatedAt  string         `toml:"created_at"`
	Author     string         `toml:"author"`
	Content    string         `toml:"content"`
	Expiration string         `toml:"expiration,omitempty"`
	Temporary  bool           `toml:"temporary,omitempty"`
	Active     bool           `toml:"active"`
	Location   locationSchema `toml:"location"`
}

type locationSchema struct {
	World string  `toml:"world"`
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	Z     float64 `toml:"z"`
	Yaw   float64 `toml:"yaw"`
	Pitch float64 `toml:"pitch"`
}
