package handlers

import (
	"context"
	"log"

	"pantry/database"
	"pantry/engine"
	"pantry/models"

	"github.com/gofiber/fiber/v2"
)

// HandleRecordStatusSnapshot records the current engine classification of
// every active item into status_history. The engine only ever reports the
// current moment; accumulating history is this collaborator's job.
// POST /api/v1/pantry/stats/snapshot
func HandleRecordStatusSnapshot(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	items, err := loadActiveItems(ctx, userID)
	if err != nil {
		log.Printf("Error loading items for snapshot: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load items"})
	}

	now := clock.Now()
	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	recorded := 0
	for _, item := range items {
		ev, err := engine.Evaluate(item.Snapshot(), now, soonWindow())
		if err != nil {
			log.Printf("Skipping snapshot for inconsistent item %s: %v", item.ID, err)
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO status_history (item_id, status, recorded_at) VALUES ($1, $2, $3)`,
			item.ID, string(ev.Status), now,
		)
		if err != nil {
			log.Printf("Error recording snapshot for item %s: %v", item.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to record snapshot"})
		}
		recorded++
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"recorded": recorded}})
}

// HandleGetStatsSummary computes consumption and waste rates over everything
// the user has tracked, plus the current bucket counts.
// GET /api/v1/pantry/stats/summary
func HandleGetStatsSummary(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	var summary models.StatsSummary
	err := db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_consumed),
		       COUNT(*) FILTER (WHERE NOT is_consumed)
		FROM pantry_items
		WHERE user_id = $1
	`, userID).Scan(&summary.TotalTracked, &summary.ConsumedCount, &summary.ActiveCount)
	if err != nil {
		log.Printf("Error fetching stats counts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	items, err := loadActiveItems(ctx, userID)
	if err != nil {
		log.Printf("Error loading active items for stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load items"})
	}

	now := clock.Now()
	for _, item := range items {
		ev, err := engine.Evaluate(item.Snapshot(), now, soonWindow())
		if err != nil {
			continue // inconsistent rows don't poison the aggregate
		}
		if ev.Status == engine.StatusExpired {
			summary.ExpiredActive++
		}
		switch ev.Bucket {
		case engine.BucketExpiringToday:
			summary.Buckets.ExpiringToday++
		case engine.BucketToConsume:
			summary.Buckets.ToConsume++
		case engine.BucketIncoming:
			summary.Buckets.Incoming++
		case engine.BucketAllOk:
			summary.Buckets.AllOk++
		}
	}

	if summary.TotalTracked > 0 {
		summary.ConsumptionRate = float64(summary.ConsumedCount) / float64(summary.TotalTracked)
		summary.WasteRate = float64(summary.ExpiredActive) / float64(summary.TotalTracked)
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleGetItemStatusHistory returns the recorded status history for one item.
// GET /api/v1/pantry/items/:itemId/history
func HandleGetItemStatusHistory(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	query := `
		SELECT h.id, h.item_id, h.status, h.recorded_at
		FROM status_history h
		JOIN pantry_items i ON i.id = h.item_id
		WHERE h.item_id = $1 AND i.user_id = $2
		ORDER BY h.recorded_at DESC
	`
	rows, err := db.Query(ctx, query, itemID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve status history"})
	}
	defer rows.Close()

	history := make([]models.StatusSnapshot, 0)
	for rows.Next() {
		var s models.StatusSnapshot
		if err := rows.Scan(&s.ID, &s.ItemID, &s.Status, &s.RecordedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to scan history data"})
		}
		history = append(history, s)
	}

	return c.JSON(fiber.Map{"status": "success", "data": history})
}
