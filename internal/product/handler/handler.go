package handler

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fuzfriend/catalog-api/internal/model"
	"github.com/fuzfriend/catalog-api/internal/pkg/cache"
	"github.com/fuzfriend/catalog-api/internal/pkg/logger"
	"github.com/fuzfriend/catalog-api/internal/product"
	"github.com/fuzfriend/catalog-api/internal/product/dto"
)

// Cache status values echoed in the X-Cache-Status header.
const (
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
	cacheBypass = "BYPASS"
)

const (
	headerCacheStatus = "X-Cache-Status"
	headerCacheKey    = "X-Cache-Key"
	headerBypassCache = "X-Bypass-Cache"
)

type ProductHandler struct {
	uc     product.UseCase
	cache  cache.Store
	ttl    time.Duration
	logger logger.Logger
}

func NewProductHandler(uc product.UseCase, store cache.Store, ttl time.Duration, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		cache:  store,
		ttl:    ttl,
		logger: log,
	}
}

func (h *ProductHandler) MapRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/count", h.Count)
	r.GET("/:id", h.GetByID)
	r.POST("/search", h.Search)
}

// shouldBypassCache reports whether the request asked to skip cache read
// and write: an explicit X-Bypass-Cache: 1, or standard no-cache
// directives.
func shouldBypassCache(c *gin.Context) bool {
	if c.GetHeader(headerBypassCache) == "1" {
		return true
	}
	if strings.Contains(strings.ToLower(c.GetHeader("Cache-Control")), "no-cache") {
		return true
	}
	return strings.Contains(strings.ToLower(c.GetHeader("Pragma")), "no-cache")
}

// cacheGet degrades any backend failure to a miss.
func (h *ProductHandler) cacheGet(c *gin.Context, key string) (string, bool) {
	val, ok, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, ok
}

// cacheSet failures are logged only; the response has already been computed.
func (h *ProductHandler) cacheSet(c *gin.Context, key, value string) {
	if err := h.cache.Set(c.Request.Context(), key, value, h.ttl); err != nil {
		h.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// List serves the unfiltered paged listing.
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	bypass := shouldBypassCache(c)
	key := fmt.Sprintf("Products:Get:page=%d;pageSize=%d", page, pageSize)

	if !bypass {
		if cached, ok := h.cacheGet(c, key); ok {
			c.Header(headerCacheStatus, cacheHit)
			c.Header(headerCacheKey, key)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	resp, err := h.uc.Search(c.Request.Context(), &dto.SearchInput{Page: page, PageSize: pageSize})
	if err != nil {
		h.fail(c, err)
		return
	}

	if bypass {
		c.Header(headerCacheStatus, cacheBypass)
		c.JSON(http.StatusOK, resp)
		return
	}
	h.respondAndCache(c, key, resp)
}

// Count serves the total unfiltered product count as a bare integer.
func (h *ProductHandler) Count(c *gin.Context) {
	bypass := shouldBypassCache(c)
	const key = "Products:Count"

	if !bypass {
		if cached, ok := h.cacheGet(c, key); ok {
			if count, err := strconv.Atoi(strings.TrimSpace(cached)); err == nil {
				c.Header(headerCacheStatus, cacheHit)
				c.Header(headerCacheKey, key)
				c.JSON(http.StatusOK, count)
				return
			}
		}
	}

	count, err := h.uc.CountProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	if bypass {
		c.Header(headerCacheStatus, cacheBypass)
	} else {
		h.cacheSet(c, key, strconv.Itoa(count))
		c.Header(headerCacheStatus, cacheMiss)
		c.Header(headerCacheKey, key)
	}
	c.JSON(http.StatusOK, count)
}

// GetByID serves a single product, 404 when absent.
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	bypass := shouldBypassCache(c)
	key := fmt.Sprintf("Products:GetById:%d", id)
	c.Header("X-Requested-Id", strconv.Itoa(id))

	if !bypass {
		if cached, ok := h.cacheGet(c, key); ok {
			var p model.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				c.Header(headerCacheStatus, cacheHit)
				c.Header(headerCacheKey, key)
				c.Header("X-Returned-Id", strconv.Itoa(p.ID))
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
				return
			}
		}
	}

	p, err := h.uc.GetProduct(c.Request.Context(), id)
	if errors.Is(err, product.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("X-Returned-Id", strconv.Itoa(p.ID))

	if bypass {
		c.Header(headerCacheStatus, cacheBypass)
		c.JSON(http.StatusOK, p)
		return
	}
	h.respondAndCache(c, key, p)
}

// Search serves the general filtered search. The cache key is a content
// hash of the request body as bound, before normalization, so two
// differently-phrased but equivalent queries may occupy separate entries.
// That costs hit rate, not correctness.
func (h *ProductHandler) Search(c *gin.Context) {
	var in dto.SearchInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	bypass := shouldBypassCache(c)
	key := searchCacheKey(&in)

	if !bypass {
		if cached, ok := h.cacheGet(c, key); ok {
			c.Header(headerCacheStatus, cacheHit)
			c.Header(headerCacheKey, key)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	resp, err := h.uc.Search(c.Request.Context(), &in)
	if err != nil {
		h.fail(c, err)
		return
	}

	if bypass {
		c.Header(headerCacheStatus, cacheBypass)
		c.JSON(http.StatusOK, resp)
		return
	}
	h.respondAndCache(c, key, resp)
}

func searchCacheKey(in *dto.SearchInput) string {
	data, err := json.Marshal(in)
	if err != nil {
		return "Products:Search:ERR"
	}
	return fmt.Sprintf("Products:Search:%X", sha256.Sum256(data))
}

// respondAndCache writes the MISS response and stores the exact bytes sent
// to the client, so later hits replay an identical body.
func (h *ProductHandler) respondAndCache(c *gin.Context, key string, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.cacheSet(c, key, string(data))
	c.Header(headerCacheStatus, cacheMiss)
	c.Header(headerCacheKey, key)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	h.logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
