package controller

import (
	"github.com/gofiber/websocket/v2"

	"outreachly/models"
	"outreachly/utils"
)

// HandleCampaignProgressWS streams dispatcher progress events for one
// campaign over a websocket. The stream ends with the event carrying
// done: true; a client that disconnects early just drops its subscription.
func (cc *CampaignController) HandleCampaignProgressWS(c *websocket.Conn) {
	defer c.Close()

	campaignID := utils.ParseUint(c.Params("id"))
	userID, _ := c.Locals("userID").(uint)

	var campaign models.Campaign
	if err := cc.DB.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error; err != nil {
		c.WriteJSON(map[string]string{"error": "campaign not found"})
		return
	}

	events, cancel := cc.Hub.Subscribe(campaignID)
	defer cancel()

	// Read pump: a read error means the client went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case p, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(p); err != nil {
				cc.Logger.WithError(err).Debug("progress websocket write failed")
				return
			}
			if p.Done {
				return
			}
		case <-gone:
			return
		}
	}
}
