package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		tickets, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("pending_payments")

		collection.Fields.Add(
			&core.TextField{
				Name:     "reference",
				Required: true,
			},
			&core.RelationField{
				Name:         "user",
				Required:     true,
				CollectionId: users.Id,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.NumberField{
				Name: "amount",
				Min:  types.Pointer(0.0),
			},
			&core.BoolField{
				Name: "settled",
			},
			&core.RelationField{
				Name:         "ticket",
				CollectionId: tickets.Id,
				MaxSelect:    1,
			},
		)

		// one settlement record per gateway reference
		collection.AddIndex("idx_pending_payments_reference", true, "reference", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pending_payments")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
