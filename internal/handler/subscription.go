package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/utils"
)

func (h *Handler) ToggleSubscription(c *gin.Context) {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	subscribed, err := h.Services.Subscriptions.Toggle(c.Request.Context(), middleware.GetUserID(c), channelID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if subscribed {
		utils.Respond(c, http.StatusCreated, gin.H{"isSubscribed": true}, "Subscribed successfully")
		return
	}
	utils.Success(c, gin.H{"isSubscribed": false}, "Unsubscribed successfully")
}

// ChannelSubscribers lists who subscribes to :channelId.
func (h *Handler) ChannelSubscribers(c *gin.Context) {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	users, err := h.Services.Subscriptions.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, users, "Subscribers fetched successfully")
}

// SubscribedChannels lists the channels :subscriberId follows.
func (h *Handler) SubscribedChannels(c *gin.Context) {
	subscriberID, err := pathID(c, "subscriberId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	channels, err := h.Services.Subscriptions.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, channels, "Subscribed channels fetched successfully")
}
