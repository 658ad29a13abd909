package models

import "time"

type BlogPost struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Excerpt   string    `json:"excerpt" bson:"excerpt"`
	Content   string    `json:"content" bson:"content"`
	Image     string    `json:"image" bson:"image"`
	Category  string    `json:"category" bson:"category"`
	Author    string    `json:"author" bson:"author"`
	Published bool      `json:"published" bson:"published"`
	Views     int       `json:"views" bson:"views"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
