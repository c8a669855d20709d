package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       IUserRepository
	CircleRepository     ICircleRepository
	MembershipRepository IMembershipRepository
	ResourceRepository   IResourceRepository
	TaskRepository       ITaskRepository
	CommentRepository    ICommentRepository
	MessageRepository    IMessageRepository
	PointsRepository     IPointsRepository
}

// NewRepositories initializes all PostgreSQL-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CircleRepository:     NewCircleRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		ResourceRepository:   NewResourceRepository(db),
		TaskRepository:       NewTaskRepository(db),
		CommentRepository:    NewCommentRepository(db),
		MessageRepository:    NewMessageRepository(db),
		PointsRepository:     NewPointsRepository(db),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a LIKE pattern matching it as a literal substring
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
