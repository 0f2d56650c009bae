package main

import "github.com/nsxzhou1114/restaurant-api/cmd"

func main() {
	cmd.Execute()
}
