package main

import (
	"directchat/cmd/app"
)

func main() {
	app.GetApp().LetsGo()
}
