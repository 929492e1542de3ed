package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/hub"
	"github.com/kbowl/knowledge-bowl-backend/internal/lobby"
	"github.com/kbowl/knowledge-bowl-backend/internal/match"
	"github.com/kbowl/knowledge-bowl-backend/internal/opponent"
	"github.com/kbowl/knowledge-bowl-backend/internal/rules"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type OpponentRequest struct {
	Name            string   `json:"name"`
	Strength        string   `json:"strength"`
	DomainStrengths []string `json:"domain_strengths,omitempty"`
}

type CreateMatchRequest struct {
	Region     string            `json:"region"`
	Format     string            `json:"format"`
	PlayerTeam string            `json:"player_team"`
	Opponents  []OpponentRequest `json:"opponents"`
	Practice   bool              `json:"practice,omitempty"`
	Seed       int64             `json:"seed,omitempty"`
}

func CreateMatch(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		cfg := match.Config{
			Region:   rules.Region(req.Region),
			Format:   rules.Format(req.Format),
			Practice: req.Practice,
			Seed:     req.Seed,
		}
		for _, o := range req.Opponents {
			cfg.Opponents = append(cfg.Opponents, opponent.Profile{
				Name:            o.Name,
				Strength:        opponent.Strength(o.Strength),
				DomainStrengths: o.DomainStrengths,
			})
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *lobby.Lobby, 1)
			h.Inbox() <- hub.GetLobby{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Debug("join code collision, regenerating", zap.String("code", c))
		}

		created := make(chan hub.CreateResult, 1)
		h.Inbox() <- hub.CreateLobby{Code: code, Config: cfg, PlayerTeam: req.PlayerTeam, Reply: created}
		res := <-created
		if res.Err != nil {
			status := http.StatusInternalServerError
			// Bad region/format/lineup is the caller's mistake.
			if errors.Is(res.Err, match.ErrUnknownRegion) ||
				errors.Is(res.Err, match.ErrUnknownFormat) ||
				errors.Is(res.Err, match.ErrInsufficientQuestions) {
				status = http.StatusBadRequest
			}
			http.Error(w, res.Err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
