package model

import "github.com/google/uuid"

type Principal struct {
	UserID    uuid.UUID
	Role      string
	SessionID string
}

func (p Principal) IsViewer() bool {
	return p.Role == "VIEWER"
}
