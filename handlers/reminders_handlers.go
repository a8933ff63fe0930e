package handlers

import (
	"context"
	"database/sql"
	"log"
	"strconv"

	"pantry/database"
	"pantry/engine"
	"pantry/models"
	"pantry/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleCreateReminder schedules an expiry reminder for an item. The remind
// date is derived from the engine's effective expiration date minus the
// caller-supplied offset; delivery is somebody else's problem.
// POST /api/v1/pantry/reminders
func HandleCreateReminder(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	var req models.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "item_id is required"})
	}
	if req.DaysBefore < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "days_before must not be negative"})
	}

	item, err := loadItem(ctx, userID, req.ItemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if item.IsConsumed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Cannot schedule a reminder for a consumed item"})
	}

	res, err := engine.Resolve(item.Snapshot(), clock.Now())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Item state is inconsistent: " + err.Error()})
	}
	remindAt := res.EffectiveExpiry.AddDate(0, 0, -req.DaysBefore)

	query := `
		INSERT INTO reminders (user_id, item_id, days_before, remind_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, item_id, days_before, remind_at, is_read, created_at, updated_at
	`
	var reminder models.Reminder
	err = db.QueryRow(ctx, query, userID, req.ItemID, req.DaysBefore, remindAt).Scan(
		&reminder.ID, &reminder.UserID, &reminder.ItemID, &reminder.DaysBefore,
		&reminder.RemindAt, &reminder.IsRead, &reminder.CreatedAt, &reminder.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating reminder for item %s: %v", req.ItemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create reminder"})
	}
	reminder.ItemName = &item.Name

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": reminder})
}

// HandleGetReminders handles fetching a paginated list of reminders.
// GET /api/v1/pantry/reminders
func HandleGetReminders(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM reminders WHERE user_id = $1"
	err := db.QueryRow(ctx, countQuery, userID).Scan(&totalCount)
	if err != nil {
		log.Printf("Error counting reminders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	query := `
		SELECT r.id, r.user_id, r.item_id, i.name, r.days_before, r.remind_at, r.is_read, r.created_at, r.updated_at
		FROM reminders r
		LEFT JOIN pantry_items i ON i.id = r.item_id
		WHERE r.user_id = $1
		ORDER BY r.remind_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		log.Printf("Error fetching reminders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	defer rows.Close()

	reminders := make([]models.Reminder, 0)
	for rows.Next() {
		var r models.Reminder
		var itemName sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.ItemID, &itemName, &r.DaysBefore, &r.RemindAt, &r.IsRead, &r.CreatedAt, &r.UpdatedAt); err != nil {
			log.Printf("Error scanning reminder: %v", err)
			continue
		}
		r.ItemName = utils.NullStringToStringPtr(itemName)
		reminders = append(reminders, r)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   reminders,
		"meta":   utils.CreatePagination(totalCount, page, pageSize),
	})
}

// HandleMarkReminderAsRead handles marking a specific reminder as read.
// PUT /api/v1/pantry/reminders/:reminderId/read
func HandleMarkReminderAsRead(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	reminderID := c.Params("reminderId")

	query := "UPDATE reminders SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2"
	res, err := db.Exec(ctx, query, reminderID, userID)
	if err != nil {
		log.Printf("Error marking reminder as read: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if res.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Reminder not found or you do not have permission to modify it."})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Reminder marked as read"})
}

// HandleDeleteReminder removes a scheduled reminder.
// DELETE /api/v1/pantry/reminders/:reminderId
func HandleDeleteReminder(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)
	reminderID := c.Params("reminderId")

	res, err := db.Exec(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`, reminderID, userID)
	if err != nil {
		log.Printf("Error deleting reminder: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	if res.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Reminder not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
