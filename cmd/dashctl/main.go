// Command dashctl is an operator CLI over the dashboard's services.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
