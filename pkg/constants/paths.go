package constants

// Служебные пути (остальные маршруты собираются в router).
const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathWSGame = "/ws/game/:game_id"
)
