package docs

// @title           RentADriver API
// @version         1.0
// @description     Ride booking platform. Customers post ride requests, drivers accept them, both parties track the resulting booking through completion, reviews and chat. Includes emergency alerting and a driver leaderboard.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
