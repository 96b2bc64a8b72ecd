package http

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// InteractionDispatcher answers a decoded Discord interaction.
type InteractionDispatcher interface {
	Dispatch(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse
}

type InteractionHandler struct {
	dispatcher InteractionDispatcher
	publicKey  ed25519.PublicKey
	log        logrus.FieldLogger
}

func NewInteractionHandler(dispatcher InteractionDispatcher, publicKey ed25519.PublicKey, log logrus.FieldLogger) *InteractionHandler {
	return &InteractionHandler{
		dispatcher: dispatcher,
		publicKey:  publicKey,
		log:        log.WithField("module", "http"),
	}
}

func (h *InteractionHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, h.publicKey) {
		http.Error(w, "invalid request signature", http.StatusUnauthorized)
		return
	}

	var interaction discordgo.Interaction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp := h.dispatcher.Dispatch(r.Context(), &interaction)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.WithError(err).Error("failed to encode interaction response")
	}
}
