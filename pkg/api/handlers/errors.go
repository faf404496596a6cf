package handlers

import "github.com/gofiber/fiber/v3"

// ErrCommentIDRequired is returned when a comment action is missing its target
var ErrCommentIDRequired = fiber.NewError(fiber.StatusBadRequest, "comment ID is required")

// ErrReplyFieldsRequired is returned when a reply is missing its target or text
var ErrReplyFieldsRequired = fiber.NewError(fiber.StatusBadRequest, "comment ID and reply text are required")
