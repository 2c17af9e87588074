package models

// Customer represents a client company projects are billed to.
// Compatible with table `customer`: id, name
type Customer struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
