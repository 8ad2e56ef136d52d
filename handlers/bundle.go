package handlers

import (
	recordsRepo "patitas/database/repository/records"
)

// HandlerBundle groups every handler the router needs, plus the repositories
// the auth middleware consults.
type HandlerBundle struct {
	RecordsRepo recordsRepo.RecordsRepository

	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Catalog      *CatalogHandler
	Admin        *AdminHandler
}
