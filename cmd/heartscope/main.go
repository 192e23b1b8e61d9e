package main

import "github.com/adpena/heartscope/internal/app"

func main() {
	app.Run()
}
