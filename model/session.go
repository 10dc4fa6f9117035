package model

import "time"

// Game session statuses. The column is free text; these are the values
// the server itself writes.
const (
	SessionPlanned   = "planned"
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// GameSession is a scheduled table session run by a game master.
type GameSession struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	GameMasterID int64     `gorm:"index:idx_session_gm;not null" json:"game_master_id"`
	DateTime     time.Time `gorm:"not null" json:"date_time"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Status       string    `gorm:"size:32;not null" json:"status"`

	GameMaster *User    `gorm:"foreignKey:GameMasterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"game_master,omitempty"`
	Players    []Player `gorm:"foreignKey:GameSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"players,omitempty"`
}

// Player seats a character at a game session.
type Player struct {
	ID            int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GameSessionID int64 `gorm:"index:idx_player_session;not null" json:"game_session_id"`
	CharacterID   int64 `gorm:"index:idx_player_char;not null" json:"character_id"`

	GameSession *GameSession `gorm:"foreignKey:GameSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"game_session,omitempty"`
	Character   *Character   `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character,omitempty"`
}
