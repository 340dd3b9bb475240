package models

// Game represents a catalog entry.
type Game struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Price       Price  `db:"price_cents" json:"price"`
}

// OwnedGame is a library entry as listed for its owner.
type OwnedGame struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Price       Price  `db:"price_cents" json:"price"`
}

// CreateGameRequest defines the body of a catalog insert.
type CreateGameRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Price       Price  `json:"price" binding:"min=0"`
}

// AcquireGameRequest carries the game id when it is not given as a query parameter.
type AcquireGameRequest struct {
	GameID string `json:"gameId" form:"gameId"`
}
