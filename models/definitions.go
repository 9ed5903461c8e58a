package models

import (
	"fmt"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

const currentTimestamp = "CURRENT_TIMESTAMP"

// Definitions returns the catalog definitions in registration order.
func Definitions() ([]*schema.DbDefinition, error) {
	builders := []interface {
		Build() (*schema.DbDefinition, error)
	}{
		schema.Define[Provider]().
			RegisterProperty(ProviderFields.Id).
			RegisterProperty(ProviderFields.Name, schema.Length(200)).
			RegisterProperty(ProviderFields.Code, schema.Length(50)).
			RegisterPrimaryKey("Id").
			RegisterUniqueConstraint([]string{"Code"}),

		schema.Define[EntityType]().
			RegisterProperty(EntityTypeFields.Id).
			RegisterProperty(EntityTypeFields.Name, schema.Length(200)).
			RegisterProperty(EntityTypeFields.ProviderId).
			RegisterPrimaryKey("Id").
			RegisterExtendedProperty(EntityTypeFields.ProviderId, ProviderFields.Id, ExtEntityTypeFields.Provider),

		schema.Define[Entity]().
			RegisterProperty(EntityFields.Id).
			RegisterProperty(EntityFields.Name, schema.Length(500)).
			RegisterProperty(EntityFields.RefId, schema.Length(100)).
			RegisterProperty(EntityFields.TypeId).
			RegisterProperty(EntityFields.Address, schema.Nullable()).
			RegisterProperty(EntityFields.Created, schema.Default(currentTimestamp)).
			RegisterPrimaryKey("Id").
			RegisterExtendedProperty(EntityFields.TypeId, EntityTypeFields.Id, ExtEntityFields.Type),

		schema.Define[Area]().
			RegisterProperty(AreaFields.Id).
			RegisterProperty(AreaFields.Name, schema.Length(200)).
			RegisterProperty(AreaFields.Description, schema.Nullable()).
			RegisterPrimaryKey("Id").
			RegisterExtendedProperty(AreaFields.Id, PackageFields.AreaId, ExtAreaFields.Packages, schema.List()).
			EnableTranslation(),

		schema.Define[Package]().
			RegisterProperty(PackageFields.Id).
			RegisterProperty(PackageFields.Name, schema.Length(200)).
			RegisterProperty(PackageFields.Description, schema.Nullable()).
			RegisterProperty(PackageFields.AreaId).
			RegisterProperty(PackageFields.IsDelegable).
			RegisterPrimaryKey("Id").
			RegisterExtendedProperty(PackageFields.AreaId, AreaFields.Id, ExtPackageFields.Area).
			EnableTranslation(),

		schema.Define[Role]().
			RegisterProperty(RoleFields.Id).
			RegisterProperty(RoleFields.Name, schema.Length(200)).
			RegisterProperty(RoleFields.Code, schema.Length(100)).
			RegisterProperty(RoleFields.Description, schema.Nullable()).
			RegisterProperty(RoleFields.ProviderId).
			RegisterPrimaryKey("Id").
			RegisterUniqueConstraint([]string{"Code"}, "Name").
			RegisterExtendedProperty(RoleFields.ProviderId, ProviderFields.Id, ExtRoleFields.Provider).
			EnableTranslation().
			EnableAudit(),

		schema.Define[Assignment]().
			RegisterProperty(AssignmentFields.Id).
			RegisterProperty(AssignmentFields.FromId).
			RegisterProperty(AssignmentFields.ToId).
			RegisterProperty(AssignmentFields.RoleId).
			RegisterProperty(AssignmentFields.Created, schema.Default(currentTimestamp)).
			RegisterPrimaryKey("Id").
			RegisterUniqueConstraint([]string{"FromId", "ToId", "RoleId"}).
			RegisterExtendedProperty(AssignmentFields.FromId, EntityFields.Id, ExtAssignmentFields.From).
			RegisterExtendedProperty(AssignmentFields.ToId, EntityFields.Id, ExtAssignmentFields.To).
			RegisterExtendedProperty(AssignmentFields.RoleId, RoleFields.Id, ExtAssignmentFields.Role).
			EnableAudit(),

		schema.Define[AssignmentPackage]().
			RegisterProperty(AssignmentPackageFields.Id).
			RegisterProperty(AssignmentPackageFields.AssignmentId).
			RegisterProperty(AssignmentPackageFields.PackageId).
			RegisterPrimaryKey("Id").
			RegisterUniqueConstraint([]string{"AssignmentId", "PackageId"}).
			RegisterAsCrossReferenceExtended(
				schema.CrossSide{
					Identity:  AssignmentFields.Id,
					Reference: AssignmentPackageFields.AssignmentId,
					Extended:  ExtAssignmentPackageFields.Assignment,
					Options:   []schema.RelationOption{schema.CascadeDelete()},
				},
				schema.CrossSide{
					Identity:  PackageFields.Id,
					Reference: AssignmentPackageFields.PackageId,
					Extended:  ExtAssignmentPackageFields.Package,
				},
			),

		schema.Define[AssignmentSummary]().
			RegisterProperty(AssignmentSummaryFields.Id).
			RegisterProperty(AssignmentSummaryFields.RoleCode).
			RegisterProperty(AssignmentSummaryFields.FromName).
			RegisterProperty(AssignmentSummaryFields.ToName).
			AsView(assignmentSummarySQL, "Assignment", "Role", "Entity"),

		schema.Define[AreaPackageCount]().
			RegisterProperty(AreaPackageCountFields.AreaId).
			RegisterProperty(AreaPackageCountFields.Packages).
			AsQuery(areaPackageCountSQL, "Package"),
	}

	defs := make([]*schema.DbDefinition, 0, len(builders))
	for _, b := range builders {
		def, err := b.Build()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Registry builds the catalog registry.
func Registry() (*schema.Registry, error) {
	defs, err := Definitions()
	if err != nil {
		return nil, err
	}
	return schema.NewRegistry(defs...)
}

func assignmentSummarySQL(ctx schema.SQLContext) string {
	c := ctx.Column
	return fmt.Sprintf("SELECT A.%s AS %s, R.%s AS %s, F.%s AS %s, T.%s AS %s "+
		"FROM %s AS A "+
		"INNER JOIN %s AS R ON R.%s = A.%s "+
		"INNER JOIN %s AS F ON F.%s = A.%s "+
		"INNER JOIN %s AS T ON T.%s = A.%s",
		c("Id"), c("Id"), c("Code"), c("RoleCode"), c("Name"), c("FromName"), c("Name"), c("ToName"),
		ctx.Table("Assignment"),
		ctx.Table("Role"), c("Id"), c("RoleId"),
		ctx.Table("Entity"), c("Id"), c("FromId"),
		ctx.Table("Entity"), c("Id"), c("ToId"),
	)
}

func areaPackageCountSQL(ctx schema.SQLContext) string {
	c := ctx.Column
	return fmt.Sprintf("SELECT P.%s AS %s, COUNT(*) AS %s FROM %s AS P GROUP BY P.%s",
		c("AreaId"), c("AreaId"), c("Packages"), ctx.Table("Package"), c("AreaId"))
}
