package format

import (
	"fmt"

	"bankdg/internal/core"
)

// ResultsLabel builds the counter shown above a movement list: a "no results"
// message, a singular form, a plain count when everything fits on one page,
// or a "showing start-end of N" range.
func ResultsLabel[T any](p core.Page[T]) string {
	switch {
	case p.TotalItems == 0:
		return "No hay movimientos"
	case p.TotalItems == 1:
		return "1 movimiento encontrado"
	case p.TotalPages <= 1:
		return fmt.Sprintf("%d movimientos encontrados", p.TotalItems)
	default:
		return fmt.Sprintf("Mostrando %d-%d de %d movimientos", p.Start, p.End, p.TotalItems)
	}
}
