package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/allowlist"
	"github.com/mogul-productions/go-mogies-auction/auction"
	"github.com/mogul-productions/go-mogies-auction/journal"
	"github.com/mogul-productions/go-mogies-auction/sale"
)

// Handler answers read-only queries against the sale engine. The
// journal is optional; without one the history endpoint answers 404.
type Handler struct {
	eng  *auction.Engine
	jrnl *journal.Journal
	log  logrus.Ext1FieldLogger
}

// NewHandler builds a query handler; useful for mounting the routes on
// an existing router.
func NewHandler(eng *auction.Engine, jrnl *journal.Journal, log logrus.Ext1FieldLogger) *Handler {
	return &Handler{eng: eng, jrnl: jrnl, log: log}
}

// RegisterRoutes mounts the query endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sale/phase", h.phase)
	r.Get("/sale/price", h.price)
	r.Get("/sale/pools", h.pools)
	r.Get("/sale/settled", h.settled)
	r.Get("/sale/rules", h.rules)
	r.Get("/sale/remaining", h.remaining)
	r.Get("/sale/queue/{address}", h.queue)
	r.Get("/sale/allowlist/{address}", h.allowlisted)
	r.Get("/sale/buyers", h.buyers)
	r.Get("/sale/history/{address}", h.history)
}

func (h *Handler) respond(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("encode response")
	}
}

func (h *Handler) phase(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{
		"phase": h.eng.CurrentPhase().String(),
	})
}

// parseCurrency reads the ?currency= query parameter, defaulting to ETH.
func parseCurrency(r *http.Request) (sale.Currency, error) {
	switch r.URL.Query().Get("currency") {
	case "", "eth":
		return sale.Eth, nil
	case "stars":
		return sale.Stars, nil
	default:
		return 0, fmt.Errorf("unknown currency %q", r.URL.Query().Get("currency"))
	}
}

func (h *Handler) price(w http.ResponseWriter, r *http.Request) {
	cur, err := parseCurrency(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, tier := h.eng.Price(cur)
	h.respond(w, map[string]interface{}{
		"currency":  cur.String(),
		"unitPrice": price.String(),
		"tier":      tier,
	})
}

func (h *Handler) pools(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]interface{}{
		"early":     h.eng.PoolMinted(auction.PoolEarly),
		"dev":       h.eng.PoolMinted(auction.PoolDev),
		"auction":   h.eng.PoolMinted(auction.PoolAuction),
		"allowlist": h.eng.PoolMinted(auction.PoolAllowlist),
		"public":    h.eng.PoolMinted(auction.PoolPublic),
		"total":     h.eng.TotalMinted(),
	})
}

func (h *Handler) settled(w http.ResponseWriter, r *http.Request) {
	h.respond(w, map[string]string{
		"eth":   h.eng.SettledPrice(sale.Eth).String(),
		"stars": h.eng.SettledPrice(sale.Stars).String(),
	})
}

func (h *Handler) rules(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.eng.Rules())
}

func (h *Handler) remaining(w http.ResponseWriter, r *http.Request) {
	pool, buyers := h.eng.Remaining()
	h.respond(w, map[string]interface{}{
		"pool":    pool,
		"buyers":  buyers,
		"claimed": h.eng.ClaimedRemaining(),
	})
}

func parseAddress(r *http.Request) (common.Address, error) {
	raw := chi.URLParam(r, "address")
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("malformed address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func (h *Handler) queue(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seq, inQueue := h.eng.QueuePosition(addr)
	h.respond(w, map[string]interface{}{
		"inQueue":          inQueue,
		"seq":              seq,
		"entitlement":      h.eng.RemainingEntitlement(addr),
		"claimedRemaining": h.eng.HasClaimedRemaining(addr),
		"claimedRebate":    h.eng.HasClaimedRebate(addr),
	})
}

func (h *Handler) allowlisted(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	proof, err := allowlist.ParseProof(r.URL.Query().Get("proof"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ok, err := h.eng.IsAllowlisted(addr, proof)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, map[string]bool{"allowlisted": ok})
}

// history returns every journal row touching an address, in insertion
// order.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.jrnl == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	events, err := h.jrnl.EventsByAddress(addr)
	if err != nil {
		h.log.WithError(err).Error("journal query")
		http.Error(w, "journal query failed", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []journal.Event{}
	}
	h.respond(w, map[string]interface{}{
		"address": addr.Hex(),
		"events":  events,
	})
}

func (h *Handler) buyers(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		var err error
		page, err = strconv.Atoi(raw)
		if err != nil || page < 0 {
			http.Error(w, fmt.Sprintf("bad page %q", raw), http.StatusBadRequest)
			return
		}
	}
	list := h.eng.BuyerList(page)
	out := make([]string, len(list))
	for i, addr := range list {
		out[i] = addr.Hex()
	}
	h.respond(w, map[string]interface{}{
		"page":   page,
		"buyers": out,
	})
}
