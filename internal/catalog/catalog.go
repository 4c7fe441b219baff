package catalog

import (
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
)

// Source supplies the selectable candidates for a selection step. The
// production equivalent is a search/catalog service; the checkout core never
// mutates what it returns. An empty result is not an error: the step renders
// an empty state and can still be skipped or advanced past.
type Source interface {
	ItemsFor(step checkout.Step) []checkout.LineItem
}

// Static is the mock catalog used until a real catalog service exists.
type Static struct {
	items map[checkout.Step][]checkout.LineItem
}

func NewStatic() *Static {
	return &Static{items: map[checkout.Step][]checkout.LineItem{
		checkout.StepTransport: {
			{ID: "tr-flight", Name: "Direct Flight", Category: checkout.CategoryTransport, Price: 4999, Meta: "Economy"},
			{ID: "tr-train", Name: "Express Train", Category: checkout.CategoryTransport, Price: 1200, Meta: "3A Coach"},
			{ID: "tr-bus", Name: "Overnight Bus", Category: checkout.CategoryTransport, Price: 799, Meta: "Sleeper"},
		},
		checkout.StepStay: {
			{ID: "st-hotel", Name: "City Hotel", Category: checkout.CategoryStay, Price: 2200, Meta: "Per Night"},
			{ID: "st-hostel", Name: "Backpacker Hostel", Category: checkout.CategoryStay, Price: 650, Meta: "Per Night"},
			{ID: "st-resort", Name: "Beach Resort", Category: checkout.CategoryStay, Price: 5400, Meta: "Per Night"},
		},
		checkout.StepExperiences: {
			{ID: "ex-walk", Name: "Heritage Walk", Category: checkout.CategoryExperience, Price: 499},
			{ID: "ex-scuba", Name: "Scuba Session", Category: checkout.CategoryExperience, Price: 1999},
			{ID: "ex-cook", Name: "Cooking Class", Category: checkout.CategoryExperience, Price: 899},
		},
		checkout.StepGroceries: {
			{ID: "gr-water", Name: "Water Pack", Category: checkout.CategoryGroceries, Price: 120},
			{ID: "gr-snacks", Name: "Snack Hamper", Category: checkout.CategoryGroceries, Price: 349},
			{ID: "gr-fruit", Name: "Fruit Basket", Category: checkout.CategoryGroceries, Price: 249},
		},
		checkout.StepFood: {
			{ID: "fd-thali", Name: "Veg Thali", Category: checkout.CategoryFood, Price: 220},
			{ID: "fd-biryani", Name: "Hyderabadi Biryani", Category: checkout.CategoryFood, Price: 320},
			{ID: "fd-dosa", Name: "Masala Dosa", Category: checkout.CategoryFood, Price: 140},
		},
		checkout.StepHotelTransfer: {
			{ID: "tf-cab", Name: "Airport Cab", Category: checkout.CategoryTransport, Price: 550},
			{ID: "tf-shuttle", Name: "Shared Shuttle", Category: checkout.CategoryTransport, Price: 199},
		},
		checkout.StepReturnTransport: {
			{ID: "rt-flight", Name: "Return Flight", Category: checkout.CategoryTransport, Price: 4999, Meta: "Economy"},
			{ID: "rt-train", Name: "Return Train", Category: checkout.CategoryTransport, Price: 1200, Meta: "3A Coach"},
		},
	}}
}

func (s *Static) ItemsFor(step checkout.Step) []checkout.LineItem {
	src, ok := s.items[step]
	if !ok {
		return nil
	}
	items := make([]checkout.LineItem, len(src))
	copy(items, src)
	return items
}
