//go:build tools

package main

// Pins the swag CLI used to regenerate the swagger spec.
import _ "github.com/swaggo/swag"
