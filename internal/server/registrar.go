package server

import "github.com/gofiber/fiber/v2"

// Registrar is a common interface for all HTTP route registrars.
// Each service package mounts its routes on the shared /api group.
type Registrar interface {
	Register(router fiber.Router)
}
