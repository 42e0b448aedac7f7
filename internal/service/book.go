package service

import (
	"errors"
	"fmt"

	"messagely/internal/models"

	"gorm.io/gorm"
)

// BookService 封装书目 CRUD，除了 ISBN 唯一没有别的业务规则。
type BookService struct {
	db *gorm.DB
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

// FindAll 返回全部书目，按书名排序。
func (s *BookService) FindAll() ([]models.Book, error) {
	var books []models.Book
	if err := s.db.Order("title").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// FindOne 按 ISBN 查询单本书。
func (s *BookService) FindOne(isbn string) (*models.Book, error) {
	var book models.Book
	if err := s.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// Create 新建书目，ISBN 冲突返回 ErrISBNTaken。
func (s *BookService) Create(book models.Book) (*models.Book, error) {
	if err := s.db.Create(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrISBNTaken
		}
		return nil, fmt.Errorf("create book: %w", err)
	}
	return &book, nil
}

// Update 整体替换某本书的数据，ISBN 不可变更。
func (s *BookService) Update(isbn string, book models.Book) (*models.Book, error) {
	existing, err := s.FindOne(isbn)
	if err != nil {
		return nil, err
	}
	book.ISBN = existing.ISBN
	if err := s.db.Save(&book).Error; err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &book, nil
}

// Remove 删除某本书。
func (s *BookService) Remove(isbn string) error {
	res := s.db.Where("isbn = ?", isbn).Delete(&models.Book{})
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
