package main

import "github.com/sharath018/eventify-backend/cmd/eventify/commands"

//go:generate swag init --dir ../../ --generalInfo cmd/eventify/main.go --output ../../docs --outputTypes go,json --parseInternal

// @title EventiFy API
// @version 1.0
// @description Event management: events, RSVPs, comments and moderation.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	commands.Execute()
}
