package models

import "time"

// ServiceRecord is a bookable service as ingested from the catalogue.
// Records are written only through the ingestion surface; the dialog
// engine reads them.
type ServiceRecord struct {
	Name        string            `bson:"name" json:"name"` // unique
	Description string            `bson:"description" json:"description"`
	Price       string            `bson:"price" json:"price"` // display string, e.g. "$180"
	Category    string            `bson:"category,omitempty" json:"category,omitempty"`
	Meta        map[string]string `bson:"meta,omitempty" json:"meta,omitempty"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
}

// FaqRecord is a question/answer pair from the FAQ pages.
type FaqRecord struct {
	Question  string    `bson:"question" json:"question"` // unique
	Answer    string    `bson:"answer" json:"answer"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// KnowledgeHit is one search result over services and FAQs. Service hits
// carry Name/Description/Price; FAQ hits carry the question as Name and
// the answer as Description with an empty Price.
type KnowledgeHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
}
