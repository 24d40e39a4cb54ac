package bootstrap

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
	"github.com/d60-Lab/food-ordering/pkg/logger"
)

// 固定 ID，方便本地联调直接引用
const (
	SeedCustomerID   = "00000000-0000-0000-0000-000000000001"
	SeedOwnerID      = "00000000-0000-0000-0000-000000000002"
	SeedRestaurantID = "00000000-0000-0000-0000-000000000101"
	SeedAddressID    = "00000000-0000-0000-0000-000000000201"
)

// Seed 写入演示数据（幂等，已存在则跳过）
func Seed(db *gorm.DB) error {
	now := time.Now()

	customerHash, err := bcrypt.GenerateFromPassword([]byte("Customer@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ownerHash, err := bcrypt.GenerateFromPassword([]byte("Owner@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{ID: SeedCustomerID, Email: "customer@kmato.com", Password: string(customerHash), FullName: "Demo Customer", Phone: "7777777777", Role: model.RoleCustomer, CreatedAt: now},
		{ID: SeedOwnerID, Email: "owner@kmato.com", Password: string(ownerHash), FullName: "Restaurant Owner", Phone: "8888888888", Role: model.RoleRestaurantOwner, CreatedAt: now},
	}
	for i := range users {
		if err := db.Where("id = ?", users[i].ID).FirstOrCreate(&users[i]).Error; err != nil {
			return err
		}
	}

	restaurant := model.Restaurant{
		ID: SeedRestaurantID, OwnerID: SeedOwnerID,
		Name: "Spice Garden", Address: "12 MG Road", IsOpen: true, CreatedAt: now,
	}
	if err := db.Where("id = ?", restaurant.ID).FirstOrCreate(&restaurant).Error; err != nil {
		return err
	}

	menu := []model.MenuItem{
		{ID: "00000000-0000-0000-0000-000000000301", RestaurantID: SeedRestaurantID, Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Price: 100.0, IsAvailable: true, CreatedAt: now},
		{ID: "00000000-0000-0000-0000-000000000302", RestaurantID: SeedRestaurantID, Name: "Butter Naan", Description: "Tandoor flatbread", Price: 50.0, IsAvailable: true, CreatedAt: now},
		{ID: "00000000-0000-0000-0000-000000000303", RestaurantID: SeedRestaurantID, Name: "Seasonal Special", Description: "Currently off the menu", Price: 150.0, IsAvailable: false, CreatedAt: now},
	}
	for i := range menu {
		if err := db.Where("id = ?", menu[i].ID).FirstOrCreate(&menu[i]).Error; err != nil {
			return err
		}
	}

	address := model.Address{
		ID: SeedAddressID, UserID: SeedCustomerID,
		Line1: "42 Lake View", City: "Bengaluru", Pincode: "560001", CreatedAt: now,
	}
	if err := db.Where("id = ?", address.ID).FirstOrCreate(&address).Error; err != nil {
		return err
	}

	logger.Info("seed data ready",
		zap.String("customer", users[0].Email),
		zap.String("owner", users[1].Email),
		zap.String("restaurant", restaurant.Name))
	return nil
}
