package helper

import (
	"errors"
	"fmt"
	"os"
	"time"

	"comanda_pos/database"
	"comanda_pos/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetUsuarioByUsername(u string) (*model.Usuario, error) {
	db := database.DB
	var usuario model.Usuario
	if err := db.Where(&model.Usuario{Username: u}).First(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usuario, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["usuarioId"] = tokenClaim.UsuarioId
	claims["rol"] = tokenClaim.Rol
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["usuarioId"] = tokenClaim.UsuarioId
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetInfoUsuarioFromToken extrae el claim del token guardado en Locals por el
// middleware Protected. Devuelve claim vacío si no hay token válido.
func GetInfoUsuarioFromToken(c *fiber.Ctx) model.TokenClaim {
	u := c.Locals("user")
	if u == nil {
		return model.TokenClaim{}
	}

	userToken, ok := u.(*jwt.Token)
	if !ok || userToken == nil {
		return model.TokenClaim{}
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}
	}

	claim := model.TokenClaim{}
	if id, ok := claims["usuarioId"].(float64); ok {
		claim.UsuarioId = uint(id)
	}
	if username, ok := claims["username"].(string); ok {
		claim.Username = username
	}
	if rol, ok := claims["rol"].(string); ok {
		claim.Rol = rol
	}
	return claim
}
