package db

import (
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
)

// DynamoStore keeps song metadata in a DynamoDB table keyed by PK = song id.
// Scores still live on disk under dataDir.
type DynamoStore struct {
	client  dynamodbiface.DynamoDBAPI
	table   string
	dataDir string
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string, dataDir string) *DynamoStore {
	return &DynamoStore{client: client, table: table, dataDir: dataDir}
}

// Connect opens a session. A non-empty endpoint points at a local DynamoDB.
func Connect(region string, endpoint string) (dynamodbiface.DynamoDBAPI, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return dynamodb.New(sess), nil
}

func toItem(song model.Song) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String(song.ID)},
		"Name":     {S: aws.String(song.Name)},
		"Author":   {S: aws.String(song.Author)},
		"Favorite": {BOOL: aws.Bool(song.Favorite)},
	}
}

func (s *DynamoStore) fromItem(item map[string]*dynamodb.AttributeValue) model.Song {
	var song model.Song
	if v := item["PK"]; v != nil && v.S != nil {
		song.ID = *v.S
	}
	if v := item["Name"]; v != nil && v.S != nil {
		song.Name = *v.S
	}
	if v := item["Author"]; v != nil && v.S != nil {
		song.Author = *v.S
	}
	if v := item["Favorite"]; v != nil && v.BOOL != nil {
		song.Favorite = *v.BOOL
	}
	song.Folder = filepath.Join(s.dataDir, song.ID)
	return song
}

func (s *DynamoStore) List() ([]model.Song, error) {
	res := make([]model.Song, 0)
	input := &dynamodb.ScanInput{TableName: aws.String(s.table)}
	err := s.client.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			res = append(res, s.fromItem(item))
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}
	library.SortSongs(res)
	return res, nil
}

func (s *DynamoStore) Get(id string) (model.Song, error) {
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(id)}},
	})
	if err != nil {
		return model.Song{}, errors.Wrap(err, "error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return model.Song{}, errors.Wrap(library.ErrNotFound, id)
	}
	return s.fromItem(out.Item), nil
}

func (s *DynamoStore) Save(song model.Song) error {
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      toItem(song),
	})
	return errors.Wrap(err, "error from DynamoDB")
}

// SetFavorite only updates songs that exist.
func (s *DynamoStore) SetFavorite(id string, favorite bool) error {
	_, err := s.client.UpdateItem(&dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(id)}},
		UpdateExpression:    aws.String("SET Favorite = :f"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":f": {BOOL: aws.Bool(favorite)},
		},
	})
	var aerr awserr.Error
	if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return errors.Wrap(library.ErrNotFound, id)
	}
	return errors.Wrap(err, "error from DynamoDB")
}
