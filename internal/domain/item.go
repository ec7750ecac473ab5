package domain

import "time"

// Item is a donated-item listing. ItemID is a decimal string assigned as
// one greater than the current maximum, not a store-generated identifier.
// NameLC mirrors Name lowercased so DynamoDB's case-sensitive contains()
// can serve the case-insensitive name search.
type Item struct {
	ItemID      string     `json:"id" dynamodbav:"item_id"`
	Name        string     `json:"name" dynamodbav:"name"`
	NameLC      string     `json:"-" dynamodbav:"name_lc"`
	Category    string     `json:"category" dynamodbav:"category"`
	Condition   string     `json:"condition" dynamodbav:"condition"`
	Description string     `json:"description" dynamodbav:"description"`
	AgeDays     int        `json:"age_days" dynamodbav:"age_days"`
	AgeYears    float64    `json:"age_years" dynamodbav:"age_years"`
	Image       string     `json:"image,omitempty" dynamodbav:"image"`
	DateAdded   int64      `json:"date_added" dynamodbav:"date_added"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" dynamodbav:"updated_at"`
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	AgeDays     int    `json:"age_days" validate:"min=0"`
}

type UpdateItemRequest struct {
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	AgeDays     int    `json:"age_days" validate:"min=0"`
}

// SearchCriteria is a conjunctive filter built from present query parameters
// only; zero values mean "no constraint" and MaxAgeYears is an upper bound.
type SearchCriteria struct {
	Name        string
	Category    string
	Condition   string
	MaxAgeYears *int
}
