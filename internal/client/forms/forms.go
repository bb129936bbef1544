// Package forms validates user input before any request is made.
package forms

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"xianshiji/domain"
	"xianshiji/internal/utils"
)

// ValidationError names the first field that failed and a message fit for
// the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := utils.NewValidator()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"name.required":          "请输入食材名称",
	"quantity.required":      "请输入数量",
	"quantity.numeric":       "数量必须是数字",
	"minQuantity.numeric":    "最低库存必须是大于等于0的数字",
	"purchaseDate.isodate":   "购买日期格式不正确，请使用YYYY-MM-DD格式",
	"expiryDate.required":    "请输入过期日期",
	"expiryDate.isodate":     "过期日期格式不正确，请使用YYYY-MM-DD格式",
	"account.required":       "请输入手机号或邮箱",
	"password.required":      "请输入密码",
	"password.min":           "密码至少6位",
	"confirm.eqfield":        "两次输入的密码不一致",
	"nickname.required":      "请输入昵称",
	"phone.required_without": "请输入手机号或邮箱",
	"email.email":            "邮箱格式不正确",
	"familyName.required":    "请输入家庭名称",
	"inviteCode.required":    "请输入邀请码",
	"inviteCode.len":         "邀请码为8位",
	"recipeName.required":    "请输入菜谱名称",
	"cuisineType.required":   "请输入菜系",
	"prepTime.required":      "请输入准备时间",
	"prepTime.number":        "准备时间必须是数字",
	"cookTime.required":      "请输入烹饪时间",
	"cookTime.number":        "烹饪时间必须是数字",
	"difficulty.required":    "请输入难度",
	"servings.required":      "请输入份量",
	"servings.number":        "份量必须是数字",
	"description.required":   "请输入菜谱描述",
	"steps.required":         "请输入烹饪步骤",
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	msg, ok := messages[first.Field()+"."+first.Tag()]
	if !ok {
		msg = fmt.Sprintf("failed on %s", first.Tag())
	}
	return &ValidationError{Field: first.Field(), Message: msg}
}

// FoodForm is the add/edit food form as typed by the user.
type FoodForm struct {
	Name         string `form:"name" validate:"required"`
	Category     string `form:"category"`
	Quantity     string `form:"quantity" validate:"required,numeric"`
	Unit         string `form:"unit"`
	MinQuantity  string `form:"minQuantity" validate:"omitempty,numeric"`
	PurchaseDate string `form:"purchaseDate" validate:"omitempty,isodate"`
	ExpiryDate   string `form:"expiryDate" validate:"required,isodate"`
	ImageURL     string `form:"imageUrl"`
}

func (f *FoodForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Quantity = strings.TrimSpace(f.Quantity)
	f.Unit = strings.TrimSpace(f.Unit)
	f.MinQuantity = strings.TrimSpace(f.MinQuantity)
	f.PurchaseDate = strings.TrimSpace(f.PurchaseDate)
	f.ExpiryDate = strings.TrimSpace(f.ExpiryDate)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

// Request validates the form and converts it into the add/update body.
func (f FoodForm) Request(userID uint) (domain.FoodItemRequest, error) {
	f.trim()
	if err := check(f); err != nil {
		return domain.FoodItemRequest{}, err
	}

	quantity, _ := strconv.ParseFloat(f.Quantity, 64)
	if quantity < 0 {
		return domain.FoodItemRequest{}, &ValidationError{Field: "quantity", Message: "数量不能为负数"}
	}
	minQuantity, err := ParseMinQuantity(f.MinQuantity)
	if err != nil {
		return domain.FoodItemRequest{}, err
	}

	return domain.FoodItemRequest{
		UserID:       userID,
		Name:         f.Name,
		Category:     f.Category,
		Quantity:     &quantity,
		Unit:         f.Unit,
		MinQuantity:  minQuantity,
		PurchaseDate: f.PurchaseDate,
		ExpiryDate:   f.ExpiryDate,
		ImageURL:     f.ImageURL,
	}, nil
}

// ParseMinQuantity reads the food settings input. Blank clears the minimum
// (nil); anything else must be a number >= 0.
func ParseMinQuantity(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) || v < 0 {
		return nil, &ValidationError{Field: "minQuantity", Message: messages["minQuantity.numeric"]}
	}
	return &v, nil
}

// ParseQuantity reads a quantity update. Zero is allowed and removes the item.
func ParseQuantity(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, &ValidationError{Field: "quantity", Message: messages["quantity.numeric"]}
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type LoginForm struct {
	Account  string `form:"account" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f LoginForm) Request() (domain.LoginRequest, error) {
	f.Account = strings.TrimSpace(f.Account)
	if err := check(f); err != nil {
		return domain.LoginRequest{}, err
	}
	return domain.LoginRequest{Account: f.Account, Password: f.Password}, nil
}

type RegisterForm struct {
	Phone    string `form:"phone" validate:"required_without=Email"`
	Email    string `form:"email" validate:"omitempty,email"`
	Nickname string `form:"nickname" validate:"required"`
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

func (f RegisterForm) Request() (domain.RegisterRequest, error) {
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Nickname = strings.TrimSpace(f.Nickname)
	if err := check(f); err != nil {
		return domain.RegisterRequest{}, err
	}
	return domain.RegisterRequest{
		Phone:    f.Phone,
		Email:    f.Email,
		Password: f.Password,
		Nickname: f.Nickname,
	}, nil
}

type CreateFamilyForm struct {
	FamilyName string `form:"familyName" validate:"required"`
}

func (f CreateFamilyForm) Request(userID uint) (domain.CreateFamilyRequest, error) {
	f.FamilyName = strings.TrimSpace(f.FamilyName)
	if err := check(f); err != nil {
		return domain.CreateFamilyRequest{}, err
	}
	return domain.CreateFamilyRequest{FamilyName: f.FamilyName, CreatorID: userID}, nil
}

type JoinFamilyForm struct {
	InviteCode string `form:"inviteCode" validate:"required,len=8"`
}

func (f JoinFamilyForm) Request(userID uint) (domain.JoinFamilyRequest, error) {
	f.InviteCode = strings.ToUpper(strings.TrimSpace(f.InviteCode))
	if err := check(f); err != nil {
		return domain.JoinFamilyRequest{}, err
	}
	return domain.JoinFamilyRequest{InviteCode: f.InviteCode, UserID: userID}, nil
}

// RecipeForm is the recipe submission form. Steps holds one step per line.
type RecipeForm struct {
	Name        string           `form:"recipeName" validate:"required"`
	CuisineType string           `form:"cuisineType" validate:"required"`
	PrepTime    string           `form:"prepTime" validate:"required,number"`
	CookTime    string           `form:"cookTime" validate:"required,number"`
	Difficulty  string           `form:"difficulty" validate:"required"`
	Servings    string           `form:"servings" validate:"required,number"`
	Description string           `form:"description" validate:"required"`
	Steps       string           `form:"steps" validate:"required"`
	ImageURL    string           `form:"imageUrl"`
	Ingredients []IngredientForm `form:"-"`
}

type IngredientForm struct {
	Name   string
	Amount string
}

func (f RecipeForm) Request() (domain.RecipeRequest, error) {
	for _, s := range []*string{&f.Name, &f.CuisineType, &f.PrepTime, &f.CookTime,
		&f.Difficulty, &f.Servings, &f.Description, &f.Steps, &f.ImageURL} {
		*s = strings.TrimSpace(*s)
	}
	if err := check(f); err != nil {
		return domain.RecipeRequest{}, err
	}
	if len(f.Ingredients) == 0 {
		return domain.RecipeRequest{}, &ValidationError{Field: "ingredients", Message: "至少需要一个配料"}
	}

	ingredients := make([]domain.IngredientRequest, 0, len(f.Ingredients))
	for i, ing := range f.Ingredients {
		name, amount := strings.TrimSpace(ing.Name), strings.TrimSpace(ing.Amount)
		if name == "" {
			return domain.RecipeRequest{}, &ValidationError{
				Field: "ingredients", Message: fmt.Sprintf("第%d个配料的食材名称不能为空", i+1)}
		}
		if amount == "" {
			return domain.RecipeRequest{}, &ValidationError{
				Field: "ingredients", Message: fmt.Sprintf("第%d个配料的用量不能为空", i+1)}
		}
		ingredients = append(ingredients, domain.IngredientRequest{IngredientName: name, Amount: amount})
	}

	var prep, cook, servings int
	for _, n := range []struct {
		field string
		in    string
		out   *int
	}{{"prepTime", f.PrepTime, &prep}, {"cookTime", f.CookTime, &cook}, {"servings", f.Servings, &servings}} {
		v, err := strconv.Atoi(n.in)
		if err != nil {
			return domain.RecipeRequest{}, &ValidationError{Field: n.field, Message: messages[n.field+".number"]}
		}
		*n.out = v
	}
	return domain.RecipeRequest{
		Recipe: domain.RecipeFields{
			Name:        f.Name,
			CuisineType: f.CuisineType,
			PrepTime:    prep,
			CookTime:    cook,
			Difficulty:  f.Difficulty,
			Servings:    servings,
			Description: f.Description,
			Steps:       f.Steps,
			ImageURL:    f.ImageURL,
		},
		Ingredients: ingredients,
	}, nil
}
