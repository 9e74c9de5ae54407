package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/internal/pkg/cache"
	"github.com/linguabot/linguabot/internal/pkg/database"
)

const (
	CacheKeyTranslationsTotal = "statistics:translations:total"
	CacheKeyTranslationsDaily = "statistics:translations:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyAccounts          = "statistics:accounts:total"
	CacheExpiration           = 30 * time.Minute
)

// StatisticsData holds the aggregate counters exposed on the stats endpoint.
type StatisticsData struct {
	TodayTranslations int `json:"today_translations"`
	TotalAccounts     int `json:"total_accounts"`
	TotalTranslations int `json:"total_translations"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are due for a refresh.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the interval elapsed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recounts everything and writes the results to the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalTranslations int64
	if err := db.Model(&models.Translation{}).Count(&totalTranslations).Error; err != nil {
		log.Printf("Error counting total translations: %v", err)
		return err
	}

	var todayTranslations int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	if err := db.Model(&models.Translation{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayTranslations).Error; err != nil {
		log.Printf("Error counting today's translations: %v", err)
		return err
	}

	var totalAccounts int64
	if err := db.Model(&models.Account{}).Count(&totalAccounts).Error; err != nil {
		log.Printf("Error counting total accounts: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyTranslationsTotal, strconv.FormatInt(totalTranslations, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total translations: %v", err)
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyTranslationsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayTranslations, 10), CacheExpiration); err != nil {
		log.Printf("Error caching today's translations: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyAccounts, strconv.FormatInt(totalAccounts, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total accounts: %v", err)
		return err
	}

	return nil
}

// GetTotalTranslations returns the total translation count from cache or database.
func GetTotalTranslations() int {
	val, err := cache.Get(CacheKeyTranslationsTotal)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.Translation{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total translations: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyTranslationsTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total translations: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTodayTranslations returns today's translation count from cache or database.
func GetTodayTranslations() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyTranslationsDaily, today)

	val, err := cache.Get(dailyKey)
	if err != nil {
		var count int64
		db := database.GetDB()
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)

		if err := db.Model(&models.Translation{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error; err != nil {
			log.Printf("Error counting today's translations: %v", err)
			return 0
		}

		if err := cache.Set(dailyKey, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching today's translations: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTotalAccounts returns the total account count from cache or database.
func GetTotalAccounts() int {
	val, err := cache.Get(CacheKeyAccounts)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total accounts: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyAccounts, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total accounts: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetStatisticsData returns all counters, refreshing the cache when due.
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TodayTranslations: GetTodayTranslations(),
		TotalAccounts:     GetTotalAccounts(),
		TotalTranslations: GetTotalTranslations(),
	}
}
