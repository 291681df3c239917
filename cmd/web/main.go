package main

import "assist_backend/internal/app"

func main() {
	app.Run()
}
