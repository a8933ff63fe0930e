package handlers

import (
	"context"
	"errors"
	"log"

	"pantry/database"
	"pantry/engine"
	"pantry/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func logItemEvent(ctx context.Context, tx pgx.Tx, itemID, userID, eventType string, quantityChanged, newQuantity int, notes *string) error {
	query := `
		INSERT INTO item_events (item_id, user_id, event_type, quantity_changed, new_quantity, notes, event_date)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := tx.Exec(ctx, query, itemID, userID, eventType, quantityChanged, newQuantity, notes)
	return err
}

// HandleOpenItem marks part of an item as opened, starting the opened
// portion's shelf-life clock.
// POST /api/v1/pantry/items/:itemId/open
func HandleOpenItem(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	var req models.OpenItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	item, err := loadItem(ctx, userID, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
		}
		log.Printf("Error fetching item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if item.IsConsumed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Item is already consumed"})
	}

	now := clock.Now()
	updated, err := engine.Open(item.Snapshot(), req.Count, now)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidQuantity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Open count must be between 1 and the item quantity"})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE pantry_items
		SET opened_quantity = $1, opened_date = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + itemColumns
	item, err = scanPantryItem(tx.QueryRow(ctx, query, updated.OpenedQuantity, updated.OpenedDate, itemID, userID))
	if err != nil {
		log.Printf("Error persisting open for item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to open item"})
	}

	if err := logItemEvent(ctx, tx, itemID, userID, "opened", req.Count, item.Quantity, nil); err != nil {
		log.Printf("Error logging open event for item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to log event"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	ev, err := item.Evaluate(now, soonWindow())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Item state is inconsistent: " + err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleRevertOpen clears the opened portion, restoring the closed-portion
// expiry as the only clock.
// POST /api/v1/pantry/items/:itemId/revert-open
func HandleRevertOpen(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	item, err := loadItem(ctx, userID, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if item.IsConsumed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Item is already consumed"})
	}

	reverted := engine.RevertToUnopened(item.Snapshot())

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE pantry_items
		SET opened_quantity = $1, opened_date = NULL, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + itemColumns
	item, err = scanPantryItem(tx.QueryRow(ctx, query, reverted.OpenedQuantity, itemID, userID))
	if err != nil {
		log.Printf("Error reverting open for item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to revert item"})
	}

	if err := logItemEvent(ctx, tx, itemID, userID, "reverted", 0, item.Quantity, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to log event"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	ev, err := item.Evaluate(clock.Now(), soonWindow())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Item state is inconsistent: " + err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleConsumeItem consumes some or all of an item. A partial consumption
// reduces the quantity (clamping the opened portion); consuming everything
// marks the item consumed, which removes it from every status and bucket
// output for good.
// POST /api/v1/pantry/items/:itemId/consume
func HandleConsumeItem(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	var req models.ConsumeItemRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	item, err := loadItem(ctx, userID, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if item.IsConsumed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Item is already consumed"})
	}
	if req.Quantity < 0 || req.Quantity > item.Quantity {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Consume quantity out of range"})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	fullyConsumed := req.Quantity == 0 || req.Quantity == item.Quantity
	if fullyConsumed {
		query := `
			UPDATE pantry_items
			SET is_consumed = TRUE, consumed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING ` + itemColumns
		item, err = scanPantryItem(tx.QueryRow(ctx, query, itemID, userID))
		if err != nil {
			log.Printf("Error consuming item %s: %v", itemID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to consume item"})
		}
		if err := logItemEvent(ctx, tx, itemID, userID, "consumed", -item.Quantity, 0, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to log event"})
		}
	} else {
		reduced, err := engine.ReduceQuantity(item.Snapshot(), req.Quantity)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Consume quantity out of range"})
		}
		query := `
			UPDATE pantry_items
			SET quantity = $1, opened_quantity = $2, updated_at = NOW()
			WHERE id = $3 AND user_id = $4
			RETURNING ` + itemColumns
		item, err = scanPantryItem(tx.QueryRow(ctx, query, reduced.Quantity, reduced.OpenedQuantity, itemID, userID))
		if err != nil {
			log.Printf("Error reducing item %s: %v", itemID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to reduce item"})
		}
		if err := logItemEvent(ctx, tx, itemID, userID, "consumed_partial", -req.Quantity, item.Quantity, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to log event"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	if item.IsConsumed {
		return c.JSON(fiber.Map{"status": "success", "data": models.EvaluatedItem{PantryItem: item}})
	}
	ev, err := item.Evaluate(clock.Now(), soonWindow())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Item state is inconsistent: " + err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleGetItemEvents returns the audit history for one item.
// GET /api/v1/pantry/items/:itemId/events
func HandleGetItemEvents(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	query := `
		SELECT id, item_id, user_id, event_type, quantity_changed, new_quantity, notes, event_date
		FROM item_events
		WHERE item_id = $1 AND user_id = $2
		ORDER BY event_date DESC
	`
	rows, err := db.Query(ctx, query, itemID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve item events"})
	}
	defer rows.Close()

	events := make([]models.ItemEvent, 0)
	for rows.Next() {
		var e models.ItemEvent
		if err := rows.Scan(&e.ID, &e.ItemID, &e.UserID, &e.EventType, &e.QuantityChanged, &e.NewQuantity, &e.Notes, &e.EventDate); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to scan event data"})
		}
		events = append(events, e)
	}

	return c.JSON(fiber.Map{"status": "success", "data": events})
}
