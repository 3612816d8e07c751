package mapper

import (
	"encoding/json"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"

	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToModel(a *entity.AuditLog) *model.AuditLog {
	if a == nil {
		return nil
	}
	return &model.AuditLog{
		Id:        a.Id,
		Table:     a.TableName,
		Action:    a.Action,
		OldValue:  toJSON(a.OldValue),
		NewValue:  toJSON(a.NewValue),
		UserId:    a.UserId,
		Timestamp: a.Timestamp,
	}
}

func (m *AuditMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}
	return &entity.AuditLog{
		Id:        a.Id,
		TableName: a.Table,
		Action:    a.Action,
		OldValue:  fromJSON(a.OldValue),
		NewValue:  fromJSON(a.NewValue),
		UserId:    a.UserId,
		Timestamp: a.Timestamp,
	}
}

func (m *AuditMapper) ToEntities(logs []*model.AuditLog) []*entity.AuditLog {
	entities := make([]*entity.AuditLog, len(logs))
	for i, a := range logs {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func toJSON(values map[string]interface{}) datatypes.JSON {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func fromJSON(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}
