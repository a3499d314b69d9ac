package main

import "sandwich-shop-api/commands"

func main() {
	commands.Execute()
}
