package model

import "time"

// GameStatus — жизненный цикл сконфигурированной игры в БД.
const (
	GameStatusCreated  = "created"
	GameStatusStarted  = "started"
	GameStatusFinished = "finished"
)

// Format type tags persisted per games row.
const (
	GameTypeChGK   = "chgk"
	GameTypeMatrix = "matrix"
)

// User — учётная запись (GORM).
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Password  string    `gorm:"size:255;not null"` // bcrypt hash
	Name      string    `gorm:"size:255"`
	Role      string    `gorm:"size:20;not null;default:user"` // user, admin
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// Team — команда с капитаном (GORM).
type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	CaptainID *string   `gorm:"type:uuid;index"`
	Captain   *User     `gorm:"foreignKey:CaptainID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Team) TableName() string { return "teams" }

// BigGame — событие целиком: до двух форматов плюс состав команд (GORM).
type BigGame struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	Status    string    `gorm:"size:20;not null;default:created"`
	AdminID   *string   `gorm:"type:uuid;index"`
	Admin     *User     `gorm:"foreignKey:AdminID"`
	Games     []Game    `gorm:"foreignKey:BigGameID"`
	Teams     []Team    `gorm:"many2many:big_game_teams"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (BigGame) TableName() string { return "big_games" }

// Game — один формат внутри события (GORM).
type Game struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BigGameID string  `gorm:"type:uuid;not null;index"`
	Type      string  `gorm:"size:20;not null"` // chgk, matrix
	Rounds    []Round `gorm:"foreignKey:GameID"`
}

func (Game) TableName() string { return "games" }

// Round — тур формата с бюджетом времени на вопрос (GORM).
type Round struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID        string     `gorm:"type:uuid;not null;index"`
	Number        int        `gorm:"not null"`
	QuestionCount int        `gorm:"not null"`
	QuestionTime  int        `gorm:"not null;default:60"` // seconds
	QuestionCost  int        `gorm:"not null;default:1"`
	Questions     []Question `gorm:"foreignKey:RoundID"`
}

func (Round) TableName() string { return "rounds" }

// Question — слот вопроса в туре (GORM).
type Question struct {
	ID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID string `gorm:"type:uuid;not null;index"`
	Number  int    `gorm:"not null"`
	Cost    int    `gorm:"not null;default:1"`
	Time    int    `gorm:"not null;default:60"`
}

func (Question) TableName() string { return "questions" }
