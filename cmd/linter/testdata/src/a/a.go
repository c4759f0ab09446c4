package a

import "fmt"

func greet() {
	fmt.Println("hello")  // want `found fmt.Println, use the zap logger instead`
	fmt.Printf("%d\n", 1) // want `found fmt.Printf, use the zap logger instead`
	fmt.Print("hello")    // want `found fmt.Print, use the zap logger instead`

	_ = fmt.Sprintf("formatting is fine: %d", 1)
}
