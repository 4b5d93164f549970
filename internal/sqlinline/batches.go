package sqlinline

const QInsertBatch = `--sql b208ed88-5acd-416f-b6a3-0873c8fb6fea
insert into batches(id, status, progress_current, progress_total, progress_message, created_at, updated_at)
values ($1::uuid, $2::text, 0, $3::int, '', now(), now());
`

const QUpdateBatchProgress = `--sql fd8e8b2b-47ed-4077-aaad-d7c43910069f
update batches
set progress_current = $2::int,
    progress_total = $3::int,
    progress_message = $4::text,
    updated_at = now()
where id = $1::uuid;
`

const QCompleteBatch = `--sql 45632c04-197a-4886-af68-8fc8f55a23f7
update batches
set status = $2::text,
    error_message = nullif($3::text, ''),
    progress_message = '',
    updated_at = now()
where id = $1::uuid;
`

const QSelectBatch = `--sql 7273db8f-934d-4c2a-b6ce-a0b3cc6c18f5
select id, status, progress_current, progress_total, progress_message, coalesce(error_message, ''), created_at, updated_at
from batches
where id = $1::uuid
limit 1;
`

const QInsertBatchAsset = `--sql 1ca0c6d2-4aec-480c-b2fc-c7d0cdf30e87
insert into batch_assets(id, batch_id, name, storage_key, mime, bytes, position, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::bigint, $7::int, now());
`

const QListBatchAssets = `--sql 5401a031-5458-4621-baa7-d8e29e96b95b
select id, batch_id, name, storage_key, mime, bytes, position, created_at
from batch_assets
where batch_id = $1::uuid
order by position asc;
`
