package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/vidtube/internal/middleware"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/utils"
)

func (h *Handler) CreateTweet(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Content is required")
		return
	}
	tweet, err := h.Services.Tweets.Create(c.Request.Context(), middleware.GetUserID(c), req.Content)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, tweet, "Tweet created successfully")
}

func (h *Handler) ListTweets(c *gin.Context) {
	userID, err := queryID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	tweets, err := h.Services.Tweets.List(c.Request.Context(), service.TweetQuery{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Query:    c.Query("query"),
		SortType: c.Query("sortType"),
		UserID:   userID,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, tweets, "Tweets fetched successfully")
}

func (h *Handler) UserTweets(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	tweets, err := h.Services.Tweets.ListByUser(c.Request.Context(), userID, pagination(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, tweets, "Tweets fetched successfully")
}

func (h *Handler) UpdateTweet(c *gin.Context) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req contentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Content is required")
		return
	}
	tweet, err := h.Services.Tweets.Update(c.Request.Context(), middleware.GetUserID(c), id, req.Content)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, tweet, "Tweet updated successfully")
}

func (h *Handler) DeleteTweet(c *gin.Context) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Services.Tweets.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{}, "Tweet deleted successfully")
}
