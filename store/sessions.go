package store

import (
	"context"

	"github.com/dndoverworld/server/model"
)

// SessionsByGameMaster lists the sessions a user runs, soonest first.
func (s *Store) SessionsByGameMaster(ctx context.Context, userID int64) ([]model.GameSession, error) {
	var rows []model.GameSession
	err := s.conn(ctx).
		Where("game_master_id = ?", userID).
		Order("date_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

// AddPlayer seats a character at a session.
func (s *Store) AddPlayer(ctx context.Context, sessionID, characterID int64) (*model.Player, error) {
	p := &model.Player{GameSessionID: sessionID, CharacterID: characterID}
	if err := s.Players.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayersBySession lists a session's seats with the character loaded.
func (s *Store) PlayersBySession(ctx context.Context, sessionID int64) ([]model.Player, error) {
	return s.Players.where(ctx, []string{"Character"}, "game_session_id = ?", sessionID)
}

// SetSessionStatus changes only the status column of a session.
func (s *Store) SetSessionStatus(ctx context.Context, sessionID int64, status string) error {
	res := s.conn(ctx).Model(&model.GameSession{ID: sessionID}).Update("status", status)
	if res.Error != nil {
		return Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
