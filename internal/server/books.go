package server

import (
	"errors"
	"net/http"
	"strings"

	"messagely/internal/models"
	"messagely/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// BookHandler 聚合书目 CRUD 的 HTTP handler。
type BookHandler struct {
	bookSvc *service.BookService
}

func NewBookHandler(bookSvc *service.BookService) *BookHandler {
	return &BookHandler{bookSvc: bookSvc}
}

type bookRequest struct {
	ISBN      string `json:"isbn" binding:"required"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author" binding:"required"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title" binding:"required"`
	Year      int    `json:"year"`
}

func (r bookRequest) toModel() models.Book {
	return models.Book{
		ISBN:      strings.TrimSpace(r.ISBN),
		AmazonURL: r.AmazonURL,
		Author:    r.Author,
		Language:  r.Language,
		Pages:     r.Pages,
		Publisher: r.Publisher,
		Title:     r.Title,
		Year:      r.Year,
	}
}

// List 返回全部书目。
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.bookSvc.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("list books")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// Get 按 ISBN 返回单本书。
func (h *BookHandler) Get(c *gin.Context) {
	isbn := c.Param("isbn")
	book, err := h.bookSvc.FindOne(isbn)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such book"})
			return
		}
		log.Error().Err(err).Str("isbn", isbn).Msg("get book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Create 新建书目，请求体校验不过返回 400。
func (h *BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	book, err := h.bookSvc.Create(req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrISBNTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "isbn taken"})
			return
		}
		log.Error().Err(err).Str("isbn", req.ISBN).Msg("create book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// Update 整体替换某本书的数据。
func (h *BookHandler) Update(c *gin.Context) {
	isbn := c.Param("isbn")
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	book, err := h.bookSvc.Update(isbn, req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such book"})
			return
		}
		log.Error().Err(err).Str("isbn", isbn).Msg("update book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Delete 删除某本书。
func (h *BookHandler) Delete(c *gin.Context) {
	isbn := c.Param("isbn")
	if err := h.bookSvc.Remove(isbn); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such book"})
			return
		}
		log.Error().Err(err).Str("isbn", isbn).Msg("delete book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}
