// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/handlers"
	"github.com/danielhkuo/boothpulse/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	partyHandler := handlers.NewPartyHandler(db, cfg)
	constituencyHandler := handlers.NewConstituencyHandler(db, cfg)
	boothHandler := handlers.NewBoothHandler(db, cfg)
	predictionHandler := handlers.NewPredictionHandler(db, cfg)
	campaignHandler := handlers.NewCampaignHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))

	// User management (admin operations)
	mux.HandleFunc("GET /users", middleware.WithLogging(userHandler.List))
	mux.HandleFunc("GET /users/{id}", middleware.WithLogging(userHandler.GetByID))
	mux.HandleFunc("PUT /users/{id}", middleware.WithLogging(userHandler.Update))
	mux.HandleFunc("DELETE /users/{id}", middleware.WithLogging(userHandler.Delete))
	mux.HandleFunc("PUT /users/{id}/booths", middleware.WithLogging(userHandler.AssignBooths))

	// Party registry
	mux.HandleFunc("POST /parties", middleware.WithLogging(partyHandler.Create))
	mux.HandleFunc("GET /parties", middleware.WithLogging(partyHandler.List))
	mux.HandleFunc("GET /parties/{id}", middleware.WithLogging(partyHandler.GetByID))
	mux.HandleFunc("PUT /parties/{id}", middleware.WithLogging(partyHandler.Update))
	mux.HandleFunc("DELETE /parties/{id}", middleware.WithLogging(partyHandler.Delete))

	// Constituencies (lock/unlock freezes prediction writes)
	mux.HandleFunc("POST /constituencies", middleware.WithLogging(constituencyHandler.Create))
	mux.HandleFunc("GET /constituencies", middleware.WithLogging(constituencyHandler.List))
	mux.HandleFunc("GET /constituencies/{id}", middleware.WithLogging(constituencyHandler.GetByID))
	mux.HandleFunc("PUT /constituencies/{id}", middleware.WithLogging(constituencyHandler.Update))
	mux.HandleFunc("DELETE /constituencies/{id}", middleware.WithLogging(constituencyHandler.Delete))
	mux.HandleFunc("POST /constituencies/{id}/lock", middleware.WithLogging(constituencyHandler.Lock))
	mux.HandleFunc("POST /constituencies/{id}/unlock", middleware.WithLogging(constituencyHandler.Unlock))

	// Booths
	mux.HandleFunc("POST /booths", middleware.WithLogging(boothHandler.Create))
	mux.HandleFunc("GET /booths", middleware.WithLogging(boothHandler.List))
	mux.HandleFunc("GET /booths/{id}", middleware.WithLogging(boothHandler.GetByID))
	mux.HandleFunc("PUT /booths/{id}", middleware.WithLogging(boothHandler.Update))
	mux.HandleFunc("DELETE /booths/{id}", middleware.WithLogging(boothHandler.Delete))
	mux.HandleFunc("GET /booths/{id}/summary", middleware.WithLogging(boothHandler.Summary))

	// Predictions (submit is an upsert; summary is computed on read)
	mux.HandleFunc("POST /predictions", middleware.WithLogging(predictionHandler.Submit))
	mux.HandleFunc("GET /predictions", middleware.WithLogging(predictionHandler.List))
	mux.HandleFunc("GET /predictions/my-booths", middleware.WithLogging(predictionHandler.MyBooths))
	mux.HandleFunc("GET /predictions/summary", middleware.WithLogging(predictionHandler.Summary))
	mux.HandleFunc("GET /predictions/{id}", middleware.WithLogging(predictionHandler.GetByID))

	// Campaigns and membership
	mux.HandleFunc("POST /campaigns", middleware.WithLogging(campaignHandler.Create))
	mux.HandleFunc("GET /campaigns", middleware.WithLogging(campaignHandler.List))
	mux.HandleFunc("GET /campaigns/{id}", middleware.WithLogging(campaignHandler.GetByID))
	mux.HandleFunc("GET /campaigns/{id}/summary", middleware.WithLogging(campaignHandler.Summary))
	mux.HandleFunc("POST /campaigns/{id}/join", middleware.WithLogging(campaignHandler.Join))
	mux.HandleFunc("GET /campaigns/{id}/members/pending", middleware.WithLogging(campaignHandler.PendingMembers))
	mux.HandleFunc("GET /campaigns/{id}/membership", middleware.WithLogging(campaignHandler.MyMembership))
	mux.HandleFunc("POST /campaign-members/{id}/status", middleware.WithLogging(campaignHandler.UpdateMemberStatus))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boothpulse API v1"))
	})

	return mux
}
