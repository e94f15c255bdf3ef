package main

// @title AllergyScan API
// @version 1.0
// @description Barcode allergen scanner: product lookup, allergy profile, family list, cart and allergy assistant
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /auth/token.

// @tag.name Auth
// @tag.description Device sign-in

// @tag.name Products
// @tag.description Product lookup by barcode with allergen detection

// @tag.name Allergens
// @tag.description Allergen vocabulary and the ingredient matcher

// @tag.name Profile
// @tag.description Allergy profile

// @tag.name Family
// @tag.description Family members and the allergy merge

// @tag.name Cart
// @tag.description Products kept after scanning

// @tag.name Chat
// @tag.description Allergy assistant

// @tag.name History
// @tag.description Activity history

// @tag.name Health
// @tag.description Health check endpoints
