package services

import (
	"errors"
	"strings"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

type GuestFilter struct {
	Name        string
	Email       string
	Phone       string
	Nationality string
}

func (s *GuestService) Create(guest *models.Guest) error {
	guest.FirstName = strings.TrimSpace(guest.FirstName)
	guest.LastName = strings.TrimSpace(guest.LastName)
	guest.IdentityNumber = strings.TrimSpace(guest.IdentityNumber)

	if guest.FirstName == "" || guest.LastName == "" {
		return validationErr("first_name and last_name are required")
	}
	if guest.IdentityNumber == "" {
		return validationErr("identity_number is required")
	}
	if !guest.Gender.Valid() {
		return validationErr("invalid gender %q", guest.Gender)
	}
	if strings.TrimSpace(guest.Email) == "" {
		return validationErr("email is required")
	}

	if err := s.DB.Create(guest).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return conflictErr("identity_number %q already registered", guest.IdentityNumber)
		}
		return err
	}
	return nil
}

func (s *GuestService) GetByID(id uint) (models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return guest, notFoundErr("guest", id)
		}
		return guest, err
	}
	return guest, nil
}

func (s *GuestService) List(filter GuestFilter) ([]models.Guest, error) {
	q := s.DB.Model(&models.Guest{})
	if filter.Name != "" {
		like := "%" + strings.ToLower(filter.Name) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}
	if filter.Email != "" {
		q = q.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Phone != "" {
		q = q.Where("phone LIKE ?", "%"+filter.Phone+"%")
	}
	if filter.Nationality != "" {
		q = q.Where("LOWER(nationality) = ?", strings.ToLower(filter.Nationality))
	}

	var guests []models.Guest
	if err := q.Order("last_name, first_name").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// Search matches name, email, phone or identity number against a
// single query string.
func (s *GuestService) Search(query string) ([]models.Guest, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErr("search query is required")
	}
	like := "%" + strings.ToLower(query) + "%"

	var guests []models.Guest
	err := s.DB.
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR identity_number LIKE ?",
			like, like, like, "%"+query+"%", "%"+query+"%").
		Order("last_name, first_name").
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

func (s *GuestService) Update(id uint, fields map[string]interface{}) (models.Guest, error) {
	guest, err := s.GetByID(id)
	if err != nil {
		return guest, err
	}

	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")

	if v, ok := fields["gender"]; ok {
		g, _ := v.(string)
		if !models.Gender(g).Valid() {
			return guest, validationErr("invalid gender %q", g)
		}
	}
	if v, ok := fields["identity_number"]; ok {
		num, _ := v.(string)
		num = strings.TrimSpace(num)
		if num == "" {
			return guest, validationErr("identity_number must not be empty")
		}
		fields["identity_number"] = num
	}

	if len(fields) == 0 {
		return guest, nil
	}

	if err := s.DB.Model(&guest).Updates(fields).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return guest, conflictErr("identity_number already registered")
		}
		return guest, err
	}
	return s.GetByID(id)
}

// Reservations returns the guest's reservation history, newest first.
func (s *GuestService) Reservations(guestID uint) ([]models.Reservation, error) {
	if _, err := s.GetByID(guestID); err != nil {
		return nil, err
	}

	var reservations []models.Reservation
	err := s.DB.Preload("Room").
		Where("guest_id = ?", guestID).
		Order("check_in_date DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// Delete soft-deletes a guest unless they still hold an active
// reservation.
func (s *GuestService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	var active int64
	if err := s.DB.Model(&models.Reservation{}).
		Where("guest_id = ? AND status IN ?", id, models.BlockingStatuses).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return conflictErr("guest %d has %d active reservations", id, active)
	}

	return s.DB.Delete(&models.Guest{}, id).Error
}
