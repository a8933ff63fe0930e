package handlers

import (
	"context"
	"log"

	"pantry/config"
	"pantry/database"
	"pantry/engine"
	"pantry/models"
	"pantry/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// clock supplies "now" to every handler so tests can pin time.
var clock engine.Clock = engine.System()

func soonWindow() int {
	if config.AppConfig.SoonWindowDays > 0 {
		return config.AppConfig.SoonWindowDays
	}
	return engine.DefaultSoonWindowDays
}

const itemColumns = `id, user_id, name, category, quantity, is_fresh, base_expiration_date,
	opened_quantity, opened_date, use_advanced_expiry, advanced_expiry_days,
	is_consumed, consumed_at, barcode, notes, created_at, updated_at`

func scanPantryItem(row pgx.Row) (models.PantryItem, error) {
	var item models.PantryItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Category, &item.Quantity,
		&item.IsFresh, &item.BaseExpirationDate, &item.OpenedQuantity,
		&item.OpenedDate, &item.UseAdvancedExpiry, &item.AdvancedExpiryDays,
		&item.IsConsumed, &item.ConsumedAt, &item.Barcode, &item.Notes,
		&item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func loadItem(ctx context.Context, userID, itemID string) (models.PantryItem, error) {
	db := database.GetDB()
	query := `SELECT ` + itemColumns + ` FROM pantry_items WHERE id = $1 AND user_id = $2`
	return scanPantryItem(db.QueryRow(ctx, query, itemID, userID))
}

// HandleListItems lists the user's items, each augmented with the current
// engine evaluation. Consumed items are excluded unless ?include_consumed=true.
// GET /api/v1/pantry/items
func HandleListItems(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	query := `SELECT ` + itemColumns + ` FROM pantry_items WHERE user_id = $1`
	if c.Query("include_consumed") != "true" {
		query += ` AND is_consumed = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		log.Printf("Error listing pantry items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve items"})
	}
	defer rows.Close()

	now := clock.Now()
	items := make([]models.EvaluatedItem, 0)
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			log.Printf("Error scanning pantry item: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to scan item data"})
		}
		if item.IsConsumed {
			// Consumed rows carry no evaluation; return them bare.
			items = append(items, models.EvaluatedItem{PantryItem: item})
			continue
		}
		ev, err := item.Evaluate(now, soonWindow())
		if err != nil {
			log.Printf("Item %s has inconsistent state, skipping evaluation: %v", item.ID, err)
			// Coerce to safe pending repair rather than failing the list.
			items = append(items, models.EvaluatedItem{PantryItem: item, Status: string(engine.StatusSafe), Bucket: string(engine.BucketAllOk)})
			continue
		}
		items = append(items, ev)
	}

	return c.JSON(fiber.Map{"status": "success", "data": items})
}

// HandleCreateItem adds a new item to the pantry.
// POST /api/v1/pantry/items
func HandleCreateItem(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	var req models.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Item name is required"})
	}
	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Quantity must be at least 1"})
	}

	if req.Category != nil {
		normalized, ok := utils.ValidateAndNormalizeCategory(*req.Category)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown category"})
		}
		req.Category = &normalized
		// Long-life categories with no stored date default to the extended
		// sealed shelf life.
		if !req.UseAdvancedExpiry && req.BaseExpirationDate == nil && !req.IsFresh && utils.IsLongShelfLifeCategory(normalized) {
			req.UseAdvancedExpiry = true
		}
	}

	if !req.IsFresh && !req.UseAdvancedExpiry && req.BaseExpirationDate == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "base_expiration_date is required unless the item is fresh or uses advanced expiry"})
	}

	query := `
		INSERT INTO pantry_items (user_id, name, category, quantity, is_fresh, base_expiration_date,
			use_advanced_expiry, advanced_expiry_days, barcode, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + itemColumns

	item, err := scanPantryItem(db.QueryRow(ctx, query,
		userID, req.Name, req.Category, req.Quantity, req.IsFresh, req.BaseExpirationDate,
		req.UseAdvancedExpiry, req.AdvancedExpiryDays, req.Barcode, req.Notes,
	))
	if err != nil {
		log.Printf("Error creating pantry item %q (category %s): %v", req.Name, utils.PointerToString(req.Category), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create item"})
	}

	ev, err := item.Evaluate(clock.Now(), soonWindow())
	if err != nil {
		log.Printf("Error evaluating new item %s: %v", item.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to evaluate item"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleGetItemByID returns one item with its evaluation.
// GET /api/v1/pantry/items/:itemId
func HandleGetItemByID(c *fiber.Ctx) error {
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	item, err := loadItem(ctx, userID, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
		}
		log.Printf("Error fetching item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
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

// HandleUpdateItem updates the editable fields of an item.
// PUT /api/v1/pantry/items/:itemId
func HandleUpdateItem(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	var req models.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Name == "" || req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Name and a positive quantity are required"})
	}
	if req.Category != nil {
		normalized, ok := utils.ValidateAndNormalizeCategory(*req.Category)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown category"})
		}
		req.Category = &normalized
	}
	if !req.IsFresh && !req.UseAdvancedExpiry && req.BaseExpirationDate == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "base_expiration_date is required unless the item is fresh or uses advanced expiry"})
	}

	query := `
		UPDATE pantry_items
		SET name = $1, category = $2, quantity = $3, is_fresh = $4, base_expiration_date = $5,
			use_advanced_expiry = $6, advanced_expiry_days = $7, barcode = $8, notes = $9,
			opened_quantity = LEAST(opened_quantity, $3), updated_at = NOW()
		WHERE id = $10 AND user_id = $11 AND is_consumed = FALSE
		RETURNING ` + itemColumns

	item, err := scanPantryItem(db.QueryRow(ctx, query,
		req.Name, req.Category, req.Quantity, req.IsFresh, req.BaseExpirationDate,
		req.UseAdvancedExpiry, req.AdvancedExpiryDays, req.Barcode, req.Notes,
		itemID, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found or already consumed"})
		}
		log.Printf("Error updating item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update item"})
	}

	ev, err := item.Evaluate(clock.Now(), soonWindow())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Item state is inconsistent: " + err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "data": ev})
}

// HandleDeleteItem removes an item permanently.
// DELETE /api/v1/pantry/items/:itemId
func HandleDeleteItem(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	itemID := c.Params("itemId")

	res, err := db.Exec(ctx, `DELETE FROM pantry_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		log.Printf("Error deleting item %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete item"})
	}
	if res.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
