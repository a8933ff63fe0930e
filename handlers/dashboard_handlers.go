package handlers

import (
	"context"
	"log"
	"time"

	"pantry/database"
	"pantry/engine"
	"pantry/models"

	"github.com/gofiber/fiber/v2"
)

func evaluatedGroup(evs []engine.Evaluation, byID map[string]models.PantryItem) []models.EvaluatedItem {
	out := make([]models.EvaluatedItem, 0, len(evs))
	for _, ev := range evs {
		out = append(out, models.EvaluatedItem{
			PantryItem:              byID[ev.Item.ID],
			Status:                  string(ev.Status),
			EffectiveExpirationDate: ev.Resolution.EffectiveExpiry,
			DaysRemaining:           ev.Resolution.DaysRemaining,
			Bucket:                  string(ev.Bucket),
			ClosedPortionExpiry:     ev.Resolution.ClosedExpiry,
			OpenedPortionExpiry:     ev.Resolution.OpenedExpiry,
		})
	}
	return out
}

func loadActiveItems(ctx context.Context, userID string) ([]models.PantryItem, error) {
	db := database.GetDB()
	query := `SELECT ` + itemColumns + ` FROM pantry_items WHERE user_id = $1 AND is_consumed = FALSE`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PantryItem, 0)
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func buildSummary(items []models.PantryItem, now time.Time) (models.DashboardSummary, error) {
	snapshots := make([]engine.Item, 0, len(items))
	byID := make(map[string]models.PantryItem, len(items))
	for _, item := range items {
		snapshots = append(snapshots, item.Snapshot())
		byID[item.ID] = item
	}

	sum, err := engine.Assign(snapshots, now, soonWindow())
	if err != nil {
		return models.DashboardSummary{}, err
	}

	return models.DashboardSummary{
		ExpiringToday: evaluatedGroup(sum.ExpiringToday, byID),
		ToConsume:     evaluatedGroup(sum.ToConsume, byID),
		Incoming:      evaluatedGroup(sum.Incoming, byID),
		AllOk:         evaluatedGroup(sum.AllOk, byID),
		Counts:        sum.Counts,
		ByCategory:    sum.ByCategory,
		TotalActive:   sum.TotalActive,
		SafeRatio:     sum.SafeRatio,
	}, nil
}

// HandleGetDashboardSummary partitions the user's active items into the
// urgency buckets and returns them with counts, per-category counts and the
// safe ratio.
// GET /api/v1/pantry/dashboard/summary
func HandleGetDashboardSummary(c *fiber.Ctx) error {
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	items, err := loadActiveItems(ctx, userID)
	if err != nil {
		log.Printf("Error loading active items for dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load items"})
	}

	summary, err := buildSummary(items, clock.Now())
	if err != nil {
		log.Printf("Error bucketing items for user %s: %v", userID, err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "An item has inconsistent state: " + err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}
