package model

import "github.com/raysh454/seolens/internal/pagination"

// Page is one window of a listing plus links to its neighbours.
type Page[T any] struct {
	Items []T             `json:"items"`
	Info  pagination.Info `json:"info"`
}

// NewPage trims the look-ahead record fetched for w.
func NewPage[T any](w pagination.Window, fetched []T) *Page[T] {
	items, info := pagination.Apply(w, fetched)
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Info: info}
}
