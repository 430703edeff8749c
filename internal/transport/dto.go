package transport

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
}

type SessionResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Image string    `json:"image,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientName string `json:"patientName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	DoctorName  string `json:"doctorName"`
	Department  string `json:"department"`
	Reason      string `json:"reason"`
}

type PatchAppointmentRequest struct {
	Status     *string `json:"status"`
	DoctorName *string `json:"doctorName"`
	Notes      *string `json:"notes"`
}

type DoctorRequest struct {
	Name           *string  `json:"name"`
	Specialization *string  `json:"specialization"`
	Qualification  *string  `json:"qualification"`
	Experience     *int     `json:"experience"`
	Fee            *int64   `json:"fee"`
	AvailableDays  []string `json:"availableDays"`
	AvailableTime  *string  `json:"availableTime"`
	Bio            *string  `json:"bio"`
	Image          *string  `json:"image"`
	IsActive       *bool    `json:"isActive"`
}

type ScopeRequest struct {
	DoctorID    *uuid.UUID `json:"doctorId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PostRequest struct {
	Title      *string         `json:"title"`
	Slug       *string         `json:"slug"`
	Excerpt    *string         `json:"excerpt"`
	Content    json.RawMessage `json:"content"`
	CoverImage *string         `json:"coverImage"`
	Published  *bool           `json:"published"`
	CategoryID *uuid.UUID      `json:"categoryId"`
	TagIDs     []uuid.UUID     `json:"tagIds"`
}

type CommentRequest struct {
	PostID   uuid.UUID  `json:"postId"`
	ParentID *uuid.UUID `json:"parentId"`
	Content  string     `json:"content"`
}

type ForumCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type TopicRequest struct {
	CategoryID uuid.UUID `json:"categoryId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
}

type ModerateTopicRequest struct {
	IsPinned *bool `json:"isPinned"`
	IsLocked *bool `json:"isLocked"`
}

type ForumPostRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentId"`
}

type VoteRequest struct {
	TargetType string    `json:"targetType"`
	TargetID   uuid.UUID `json:"targetId"`
	VoteType   string    `json:"voteType"`
}

type BookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	ISBN        *string `json:"isbn"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	Image       *string `json:"image"`
}

type AddToCartRequest struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type CourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Instructor  *string  `json:"instructor"`
	Duration    *string  `json:"duration"`
	Price       *int64   `json:"price"`
	Image       *string  `json:"image"`
	Highlights  []string `json:"highlights"`
	IsActive    *bool    `json:"isActive"`
}

type CourseOrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	Phone         string `json:"phone"`
}

type GalleryRequest struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Published   *bool  `json:"published"`
}

type BannerRequest struct {
	Heading     *string `json:"heading"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Button      *string `json:"button"`
	Link        *string `json:"link"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

type BannerOrderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

type NoticeRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Attachment *string `json:"attachment"`
	Published  *bool   `json:"published"`
}

type StudentRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	CourseID *uuid.UUID `json:"courseId"`
	Batch    *string    `json:"batch"`
	Address  *string    `json:"address"`
	Image    *string    `json:"image"`
	Note     *string    `json:"note"`
}

type MailTestRequest struct {
	To string `json:"to"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
