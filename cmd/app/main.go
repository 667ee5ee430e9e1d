package main

import "pilot-bidding-api/app"

func main() {
	app.Run()
}
