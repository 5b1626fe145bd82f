package main

// Blank imports register the notification providers with the factory registry.
import (
	_ "github.com/mindhq/mindcore/internal/adapter/email"
	_ "github.com/mindhq/mindcore/internal/adapter/slack"
)
