// cmd/main.go
package main

import (
	"go-ledger-api/app"
)

// @title           Ledger API
// @version         1.0
// @description     Account ledger and transfer service for the online banking platform.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
