package main

import "fmt"

func main() {
	fmt.Println("printing from package main is fine")
}
