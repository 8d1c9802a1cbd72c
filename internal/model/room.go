package model

// Room is a physical classroom ("sala"). Numero is the natural key that
// class sections reference through their sala_id field.
type Room struct {
	ID        string   `json:"_id,omitempty"`
	Number    string   `json:"numero"`
	Name      string   `json:"nome"`
	Capacity  int      `json:"capacidade"`
	Kind      string   `json:"tipo"`
	Resources []string `json:"recursos,omitempty"`
	Active    bool     `json:"ativa"`
}

// RoomRequest is the payload for creating or replacing a room.
type RoomRequest struct {
	Number    string   `json:"numero" binding:"required,max=20"`
	Name      string   `json:"nome" binding:"required,min=2,max=100"`
	Capacity  int      `json:"capacidade" binding:"required,min=1"`
	Kind      string   `json:"tipo" binding:"required,max=50"`
	Resources []string `json:"recursos" binding:"omitempty,dive,max=50"`
	Active    *bool    `json:"ativa" binding:"required"`
}
