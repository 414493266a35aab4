package model

import (
	"regexp"
	"time"
)

// DefaultCategoryColor используется, если цвет не передан
const DefaultCategoryColor = "#4361ee"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultCategory описывает категорию, которую получает каждый новый пользователь
type DefaultCategory struct {
	Name  string
	Color string
	Code  string
}

// DefaultCategories создаются при регистрации
var DefaultCategories = []DefaultCategory{
	{Name: "РАБОТА", Color: "#FF0000", Code: "WORK"},
	{Name: "УЧЁБА", Color: "#00FF00", Code: "STUDY"},
	{Name: "ОТДЫХ", Color: "#0000FF", Code: "REST"},
	{Name: "СПОРТ", Color: "#FF00FF", Code: "SPORT"},
	{Name: "ХОББИ", Color: "#FFFF00", Code: "HOBBY"},
}

// IsValidColor checks the #RRGGBB form.
func IsValidColor(color string) bool {
	return colorPattern.MatchString(color)
}
