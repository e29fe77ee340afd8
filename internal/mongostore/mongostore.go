// Package mongostore persists tasks and employees in MongoDB using the
// document shapes of the techsolutions database.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/baiirun/taskorg/internal/model"
)

const (
	DefaultDatabase = "techsolutions"

	tasksCollection     = "tareas"
	employeesCollection = "empleados"
)

// Store is a MongoDB-backed task and employee store.
type Store struct {
	logger    *slog.Logger
	client    *mongo.Client
	tasks     *mongo.Collection
	employees *mongo.Collection
}

// Open connects to uri, pings the primary and ensures the indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		logger:    slog.Default(),
		client:    client,
		tasks:     db.Collection(tasksCollection),
		employees: db.Collection(employeesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}, {Key: "tipo", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create task index: %w", err)
	}
	_, err = s.employees.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create employee index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes both collections. Used to reset test databases.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.tasks.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop tasks: %w", err)
	}
	if err := s.employees.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop employees: %w", err)
	}
	return s.ensureIndexes(ctx)
}

func (s *Store) SaveTask(ctx context.Context, task model.Task, kind model.Kind) error {
	if !kind.IsValid() {
		return fmt.Errorf("invalid task kind: %s", kind)
	}
	_, err := s.tasks.InsertOne(ctx, toTaskDoc(task, kind))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: task %s already stored as %s", model.ErrDuplicateID, task.ID, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// updateDoc builds the $set/$unset update for the shared fields of task.
// Every document with the id keeps its own tipo and priority.
func updateDoc(task model.Task) bson.M {
	set := bson.M{
		"descripcion":    task.Description,
		"departamento":   task.Department,
		"urgencia":       string(task.Urgency),
		"horasEstimadas": task.EstimatedHours,
	}
	unset := bson.M{}

	if task.AssignedTo != nil {
		set["empleadoAsignado"] = *task.AssignedTo
	} else {
		unset["empleadoAsignado"] = ""
	}
	if len(task.Dependencies) > 0 {
		set["dependencias"] = task.Dependencies
	} else {
		unset["dependencias"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// priorityDoc re-ranks the documents of id that already carry a prioridad.
func priorityDoc(id string, p model.Priority) (filter, update bson.M) {
	filter = bson.M{"id": id, "prioridad": bson.M{"$exists": true}}
	update = bson.M{"$set": bson.M{"prioridad": p.Rank, "fechaEntrega": p.DueDate}}
	return filter, update
}

func (s *Store) UpdateTask(ctx context.Context, id string, task model.Task) error {
	res, err := s.tasks.UpdateMany(ctx, bson.M{"id": id}, updateDoc(task))
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	if task.Priority != nil {
		filter, update := priorityDoc(id, *task.Priority)
		if _, err := s.tasks.UpdateMany(ctx, filter, update); err != nil {
			return fmt.Errorf("failed to update priority: %w", err)
		}
	}
	return nil
}

// DeleteTask removes every document with the id and pulls it from other
// tasks' dependencias.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteTask(ctx, s.tasks, s.logger, id)
}

// taskDeleter is the part of *mongo.Collection that deleteTask uses.
type taskDeleter interface {
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// deleteTask reports success once the documents are gone. A failed pull is
// logged, not returned; edges to unknown tasks are skipped on load.
func deleteTask(ctx context.Context, c taskDeleter, logger *slog.Logger, id string) error {
	res, err := c.DeleteMany(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	_, err = c.UpdateMany(ctx,
		bson.M{"dependencias": id},
		bson.M{"$pull": bson.M{"dependencias": id}},
	)
	if err != nil {
		logger.Warn("failed to pull deleted task from dependencias", "id", id, "error", err)
	}
	return nil
}

func (s *Store) findTasks(ctx context.Context, filter bson.M) ([]model.Task, error) {
	cur, err := s.tasks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	tasks := make([]model.Task, len(docs))
	for i, d := range docs {
		tasks[i] = d.task()
	}
	return tasks, nil
}

func (s *Store) LoadAllTasks(ctx context.Context) ([]model.Task, error) {
	return s.findTasks(ctx, bson.M{})
}

func (s *Store) LoadTasksByKind(ctx context.Context, kind model.Kind) ([]model.Task, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid task kind: %s", kind)
	}
	return s.findTasks(ctx, bson.M{"tipo": string(kind)})
}

func (s *Store) SaveEmployee(ctx context.Context, e model.Employee) error {
	_, err := s.employees.InsertOne(ctx, toEmployeeDoc(e))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: employee %s", model.ErrDuplicateID, e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

func (s *Store) LoadAllEmployees(ctx context.Context) ([]model.Employee, error) {
	cur, err := s.employees.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	var docs []employeeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	emps := make([]model.Employee, len(docs))
	for i, d := range docs {
		emps[i] = d.employee()
	}
	return emps, nil
}

// ids returns the id field of every document in coll.
func ids(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"id": 1, "_id": 0}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out, nil
}

func (s *Store) NextTaskID(ctx context.Context) (string, error) {
	all, err := ids(ctx, s.tasks)
	if err != nil {
		return "", fmt.Errorf("failed to list task ids: %w", err)
	}
	return model.NextTaskID(all), nil
}

func (s *Store) NextEmployeeID(ctx context.Context) (string, error) {
	all, err := ids(ctx, s.employees)
	if err != nil {
		return "", fmt.Errorf("failed to list employee ids: %w", err)
	}
	return model.NextEmployeeID(all), nil
}

// Stats counts documents per tipo and the stored employees.
func (s *Store) Stats(ctx context.Context) (model.StoreStats, error) {
	stats := model.StoreStats{Tasks: make(map[model.Kind]int)}
	for _, kind := range []model.Kind{model.KindUrgent, model.KindScheduled, model.KindDepartmental, model.KindPriority} {
		n, err := s.tasks.CountDocuments(ctx, bson.M{"tipo": string(kind)})
		if err != nil {
			return stats, fmt.Errorf("failed to count %s tasks: %w", kind, err)
		}
		if n > 0 {
			stats.Tasks[kind] = int(n)
		}
	}
	n, err := s.employees.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, fmt.Errorf("failed to count employees: %w", err)
	}
	stats.Employees = int(n)
	return stats, nil
}
