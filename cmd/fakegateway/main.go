package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// A standalone stand-in for the external charge gateway, useful for local
// runs: every call succeeds after a short delay.

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /charge", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"status": "success", "transactionId": fmt.Sprintf("tx_%d", time.Now().UnixMilli())})
	})
	mux.HandleFunc("POST /create-payment-intent", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"status": "requires_confirmation", "intentId": fmt.Sprintf("pi_%d", time.Now().UnixMilli())})
	})
	mux.HandleFunc("POST /refund", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"status": "success", "refundId": fmt.Sprintf("refund_%d", time.Now().UnixMilli())})
	})
	mux.HandleFunc("POST /verify", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"verified": true})
	})

	log.Printf("fake payment gateway listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("fake gateway error: %v", err)
	}
}

func respond(w http.ResponseWriter, v map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("fake gateway write error: %v", err)
	}
}
