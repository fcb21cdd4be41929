package main

import (
	"context"
	"net/http"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS for the websocket is enforced at the proxy; the API itself serves
	// every console origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedMessage is one frame on the live feed: a collection name plus its full
// current snapshot. The console replaces its table wholesale on every frame,
// so dropped intermediate frames cost nothing.
type feedMessage struct {
	Collection models.Collection `json:"collection"`
	Rows       interface{}       `json:"rows"`
}

func collectionSnapshot(ctx context.Context, store *models.Store, collection models.Collection) (interface{}, error) {
	switch collection {
	case models.CollectionSupplies:
		return store.SupplyRows(ctx)
	case models.CollectionDeliveries:
		return store.DeliveryRows(ctx, nil, nil)
	case models.CollectionReleases:
		return store.ReleaseRows(ctx, nil, nil)
	case models.CollectionUnits:
		return store.ListSupplyUnits(ctx)
	case models.CollectionClassifications:
		return store.ListClassifications(ctx)
	}
	return nil, nil
}

// liveFeedHandler upgrades the connection, pushes a full snapshot of every
// collection, then re-sends a collection's snapshot each time the change feed
// reports it dirty.
func liveFeedHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			config.LogError(logger, "livefeed", "liveFeedHandler", "upgrade failed", nil, err)
			return
		}

		changes, cancel := store.Feed().Subscribe(32)
		defer cancel()
		defer conn.Close()

		// reader: the console never sends data frames, but reading is what
		// surfaces close frames and pong replies.
		done := make(chan struct{})
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongWait))
		})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ctx := c.Request.Context()
		send := func(collection models.Collection) bool {
			rows, err := collectionSnapshot(ctx, store, collection)
			if err != nil {
				config.LogError(logger, "livefeed", "liveFeedHandler", "snapshot failed",
					string(collection), err)
				return true
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			return conn.WriteJSON(feedMessage{Collection: collection, Rows: rows}) == nil
		}

		for _, collection := range models.AllCollections {
			if !send(collection) {
				return
			}
		}

		ticker := time.NewTicker(feedPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case collection, ok := <-changes:
				if !ok {
					return
				}
				if !send(collection) {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
